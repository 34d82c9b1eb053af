package template

import (
	"strings"

	"github.com/commonsbots/geograph-sync/internal/model"
)

// AddCreditLine inserts the credit-line template after the information block
// (or at the end of the page when there is none). Text that already carries
// a credit line is returned unchanged.
func AddCreditLine(text string, cl model.CreditLine) string {
	if len(findTemplates(text, "Credit line")) > 0 {
		return text
	}
	rendered := cl.Text()
	if spans := findTemplates(text, "Information"); len(spans) > 0 {
		end := spans[0].end
		return text[:end] + "\n" + rendered + text[end:]
	}
	if !strings.HasSuffix(text, "\n") && text != "" {
		text += "\n"
	}
	return text + rendered + "\n"
}
