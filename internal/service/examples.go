package service

var examples = [...]string{
	// Contract
	"Notwithstanding anything to the contrary contained herein, the party of the second part shall indemnify, defend, and hold harmless the party of the first part from and against any and all claims, liabilities, losses, and expenses (including reasonable attorneys' fees) arising out of or relating to the performance of this Agreement, except to the extent caused by the gross negligence or willful misconduct of the party of the first part.",
	// Wills, Trusts, and Estates
	"I hereby bequeath all my personal property to my children, to be divided equally among them, and appoint my spouse as the executor of my estate.",
	"Upon my death, the trustee shall distribute the remaining assets of the trust to my grandchildren in equal shares.",
	// Criminal Procedure
	"The defendant is entitled to a speedy and public trial by an impartial jury of the State and district wherein the crime shall have been committed.",
	"Any evidence obtained in violation of the Fourth Amendment shall be inadmissible in a criminal prosecution.",
	// Family Law
	"The custodial parent shall have the right to make decisions regarding the child's education, health care, and religious upbringing.",
	// Real Estate
	"The buyer shall obtain title insurance at their own expense and the seller shall deliver a warranty deed at closing.",
	// Employment Law
	"The employee may not be terminated without cause during the initial probationary period.",
	// Personal Injury
	"The plaintiff seeks damages for injuries sustained in a car accident caused by the defendant's negligence.",
	// Intellectual Property
	"The licensee shall not sublicense, assign, or otherwise transfer any rights granted hereunder without the prior written consent of the licensor.",
}

// Examples returns a copy of the built-in example sentences, in order.
func Examples() []string {
	out := make([]string, len(examples))
	copy(out, examples[:])
	return out
}
