package model

// Statement is the normalized text of one bank statement.
// The engine reads it and never modifies it.
type Statement struct {
	Source string // file name or "inline"
	Text   string
}
