// Package gpg clearsigns text fragments with the gpg binary.
//
// Signer wraps text at 64 columns before signing: clearsigned text that is
// re-flowed later by the typesetter would no longer verify, so the lines are
// fixed up front at the width of an armored signature line.
package gpg
