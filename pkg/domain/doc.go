// Package domain contains the core entities of the IPMS contact service:
// contact submissions, admin identities and the landing content document.
// The types carry no infrastructure concerns so every layer can share them.
package domain
