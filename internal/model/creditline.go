package model

import "fmt"

// CreditLine is the author/title attribution derived from the authoritative
// row. It carries enough identity to test whether an equivalent credit is
// already present in the page text.
type CreditLine struct {
	Author string
	Title  string
}

// Text renders the credit-line template as it appears in page markup. The
// row's title leads the Other field so the credit names the image as the
// source titled it.
func (c CreditLine) Text() string {
	other := "[https://www.geograph.org.uk/ geograph.org.uk]"
	if c.Title != "" {
		other = c.Title + ", " + other
	}
	return fmt.Sprintf("{{Credit line |Author = %s |Other = %s |License = CC-BY-SA-2.0}}", c.Author, other)
}
