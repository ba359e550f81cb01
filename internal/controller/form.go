package controller

import (
	"html/template"
	"net/http"

	"github.com/pkoster/checkout-gateway/internal/backend"
)

// interactionPage is the interstitial shown while the buyer's browser hands
// off to the payment provider. It auto-submits on load; the noscript button
// keeps the flow usable without JavaScript.
var interactionPage = template.Must(template.New("interaction").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Redirecting</title>
</head>
<body onload="document.forms[0].submit()">
<p>You are being redirected to complete your payment. Please wait.</p>
<form action="{{.URL}}" method="{{.Method}}">
{{- range $name, $value := .Fields}}
<input type="hidden" name="{{$name}}" value="{{$value}}">
{{- end}}
<noscript><button type="submit">Continue</button></noscript>
</form>
</body>
</html>
`))

func renderInteractionForm(w http.ResponseWriter, form backend.Form) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	return interactionPage.Execute(w, form)
}
