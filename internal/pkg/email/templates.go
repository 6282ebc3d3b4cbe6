package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReceiptTemplate is the purchase receipt email body
const ReceiptTemplate = `
<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
    <h1>Thanks for your purchase!</h1>
    <p>We've successfully added <strong>{{.Credits}} credits</strong> to your account.</p>
    <p>Transaction ID: {{.TransactionID}}</p>
    <p>Total Paid: ${{.AmountDollars}}</p>
    <br/>
    <a href="{{.AppURL}}/create" style="background: #000; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Start Creating</a>
</div>
`

var receiptTmpl = template.Must(template.New("receipt").Parse(ReceiptTemplate))

// ReceiptData fills the receipt template
type ReceiptData struct {
	Credits       int
	TransactionID string
	AmountDollars string
	AppURL        string
}

// RenderReceipt renders the receipt email body
func RenderReceipt(credits int, amountCents int64, transactionID, appURL string) (string, error) {
	var buf bytes.Buffer
	err := receiptTmpl.Execute(&buf, ReceiptData{
		Credits:       credits,
		TransactionID: transactionID,
		AmountDollars: fmt.Sprintf("%.2f", float64(amountCents)/100),
		AppURL:        appURL,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
