package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreditLineText(t *testing.T) {
	cl := CreditLine{Author: "Jane Smith", Title: "The Old Mill"}
	assert.Equal(t,
		"{{Credit line |Author = Jane Smith |Other = The Old Mill, [https://www.geograph.org.uk/ geograph.org.uk] |License = CC-BY-SA-2.0}}",
		cl.Text())
}

func TestCreditLineTextNoTitle(t *testing.T) {
	cl := CreditLine{Author: "Jane Smith"}
	assert.Equal(t,
		"{{Credit line |Author = Jane Smith |Other = [https://www.geograph.org.uk/ geograph.org.uk] |License = CC-BY-SA-2.0}}",
		cl.Text())
}
