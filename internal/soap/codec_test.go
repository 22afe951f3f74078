package soap

import (
	"encoding/json"
	"testing"

	"walletbridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest(t *testing.T) {
	spec := operationSpec{Name: "RechargeWallet", Element: "RechargeWallet", Namespace: testNamespace}
	args := models.OpRechargeWallet.Wrap(models.NewPayload().
		Set("document", "123").
		Set("phone", "555").
		Set("amount", json.Number("100.50")).
		Set("note", "a & b <c>").
		Set("tags", []any{"x", "y"}).
		Set("ref", nil).
		Set("meta", map[string]any{"z": true, "a": int64(2)}))

	out, err := encodeRequest(spec, args)
	require.NoError(t, err)

	assert.Contains(t, string(out), `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"`)
	assert.Contains(t, string(out),
		`<soap:Body><tns:RechargeWallet><RechargeWalletRequest>`+
			`<document>123</document><phone>555</phone><amount>100.50</amount>`+
			`<note>a &amp; b &lt;c&gt;</note><tags>x</tags><tags>y</tags><ref xsi:nil="true"/>`+
			`<meta><a>2</a><z>true</z></meta>`+
			`</RechargeWalletRequest></tns:RechargeWallet></soap:Body></soap:Envelope>`)
}

func TestEncodeRequest_SOAP12WithoutNamespace(t *testing.T) {
	spec := operationSpec{Name: "ConfirmPayment", Element: "ConfirmPayment", Version: SOAP12}

	out, err := encodeRequest(spec, models.NewPayload().Set("token", "abc"))
	require.NoError(t, err)
	assert.Contains(t, string(out), soap12EnvelopeNS)
	assert.Contains(t, string(out), `<soap:Body><ConfirmPayment><token>abc</token></ConfirmPayment></soap:Body>`)
	assert.NotContains(t, string(out), "xmlns:tns")
}

func TestEncodeRequest_InvalidName(t *testing.T) {
	tests := []struct {
		name string
		spec operationSpec
		args *models.Payload
	}{
		{"element", operationSpec{Element: "1bad"}, models.NewPayload()},
		{"field", operationSpec{Element: "Op"}, models.NewPayload().Set("has space", "x")},
		{"nested", operationSpec{Element: "Op"}, models.NewPayload().Set("outer", models.NewPayload().Set("", "x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeRequest(tt.spec, tt.args)
			assert.Error(t, err)
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	reply := resultReply("GetWalletBalance",
		`<success xsi:type="xsd:boolean">true</success>`+
			`<codError>00</codError>`+
			`<messageError/>`+
			`<data>`+
			`<balance xsi:type="xsd:double">150.25</balance>`+
			`<count xsi:type="xsd:long">3</count>`+
			`<label>plain</label>`+
			`<movement>a</movement><movement>b</movement><movement>c</movement>`+
			`<closed xsi:nil="true"/>`+
			`</data>`)

	rec, err := decodeResponse([]byte(reply), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"GetWalletBalanceResult": map[string]any{
			"success":      true,
			"codError":     "00",
			"messageError": "",
			"data": map[string]any{
				"balance":  150.25,
				"count":    int64(3),
				"label":    "plain",
				"movement": []any{"a", "b", "c"},
				"closed":   nil,
			},
		},
	}, rec)
}

func TestDecodeResponse_UntypedNumbersStayText(t *testing.T) {
	rec, err := decodeResponse([]byte(soapReply(`<tns:R><balance>150</balance><flag xsi:type="xsd:int">nope</flag></tns:R>`)), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"balance": "150", "flag": "nope"}, rec)
}

func TestDecodeResponse_SchemaTypes(t *testing.T) {
	out := &typeNode{children: map[string]*typeNode{
		"balance": {simple: "decimal"},
		"active":  {simple: "boolean"},
		"count":   {simple: "int"},
		"history": {children: map[string]*typeNode{"amount": {simple: "long"}}},
	}}
	reply := soapReply(`<tns:R>` +
		`<balance>150</balance><active>1</active><count xsi:type="xsd:string">007</count>` +
		`<history><amount>5</amount></history><history><amount>-2</amount></history>` +
		`<other>42</other></tns:R>`)

	rec, err := decodeResponse([]byte(reply), out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"balance": float64(150),
		"active":  true,
		"count":   "007",
		"history": []any{
			map[string]any{"amount": int64(5)},
			map[string]any{"amount": int64(-2)},
		},
		"other": "42",
	}, rec)
}

func TestDecodeResponse_EmptyBody(t *testing.T) {
	rec, err := decodeResponse([]byte(soapReply("")), nil)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDecodeResponse_Faults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Fault
	}{
		{
			name: "soap 1.1",
			body: soapReply(`<soap:Fault><faultcode>soap:Client</faultcode><faultstring>bad document</faultstring></soap:Fault>`),
			want: Fault{Code: "soap:Client", String: "bad document"},
		},
		{
			name: "soap 1.2",
			body: `<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope"><env:Body><env:Fault>` +
				`<env:Code><env:Value>env:Receiver</env:Value></env:Code>` +
				`<env:Reason><env:Text xml:lang="en">ledger locked</env:Text></env:Reason>` +
				`</env:Fault></env:Body></env:Envelope>`,
			want: Fault{Code: "env:Receiver", String: "ledger locked"},
		},
		{
			name: "no reason",
			body: soapReply(`<soap:Fault/>`),
			want: Fault{String: "SOAP fault"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeResponse([]byte(tt.body), nil)
			require.Error(t, err)
			var fault *Fault
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, tt.want, *fault)
		})
	}
}

func TestDecodeResponse_NotXML(t *testing.T) {
	_, err := decodeResponse([]byte("upstream down"), nil)
	assert.Error(t, err)
}
