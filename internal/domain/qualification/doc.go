// Package qualification models the onboarding of service providers.
//
// A qualification certifies that a partner company can deliver a specialty
// at a given seniority. The provider takes a test, submits answers and
// attachments, and a reviewer scores the submission and works through a
// checklist before approving or rejecting it:
//
//	pending -> testing -> submitted -> in_review -> approved
//	                                             -> rejected -> pending (reopen)
package qualification
