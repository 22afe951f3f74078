package soap

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"walletbridge/internal/models"
)

const (
	soap11EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	soap12EnvelopeNS = "http://www.w3.org/2003/05/soap-envelope"
	xsiNS            = "http://www.w3.org/2001/XMLSchema-instance"
)

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// encodeRequest renders args as the body element of spec. Child elements
// are unqualified and follow the payload's key order.
func encodeRequest(spec operationSpec, args *models.Payload) ([]byte, error) {
	if !xmlName.MatchString(spec.Element) {
		return nil, fmt.Errorf("invalid element name %q", spec.Element)
	}

	envNS := soap11EnvelopeNS
	if spec.Version == SOAP12 {
		envNS = soap12EnvelopeNS
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<soap:Envelope xmlns:soap="%s" xmlns:xsi="%s"`, envNS, xsiNS)

	element := spec.Element
	if spec.Namespace != "" {
		buf.WriteString(` xmlns:tns="`)
		if err := xml.EscapeText(&buf, []byte(spec.Namespace)); err != nil {
			return nil, err
		}
		buf.WriteString(`"`)
		element = "tns:" + element
	}
	buf.WriteString(`><soap:Body>`)

	fmt.Fprintf(&buf, "<%s>", element)
	if err := writeFields(&buf, args); err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "</%s>", element)

	buf.WriteString(`</soap:Body></soap:Envelope>`)
	return buf.Bytes(), nil
}

func writeFields(buf *bytes.Buffer, p *models.Payload) error {
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		if err := writeValue(buf, k, v); err != nil {
			return err
		}
	}
	return nil
}

func writeValue(buf *bytes.Buffer, name string, v any) error {
	if !xmlName.MatchString(name) {
		return fmt.Errorf("invalid element name %q", name)
	}

	switch val := v.(type) {
	case nil:
		fmt.Fprintf(buf, `<%s xsi:nil="true"/>`, name)
		return nil
	case []any:
		for _, item := range val {
			if err := writeValue(buf, name, item); err != nil {
				return err
			}
		}
		return nil
	case *models.Payload:
		fmt.Fprintf(buf, "<%s>", name)
		if err := writeFields(buf, val); err != nil {
			return err
		}
		fmt.Fprintf(buf, "</%s>", name)
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fmt.Fprintf(buf, "<%s>", name)
		for _, k := range keys {
			if err := writeValue(buf, k, val[k]); err != nil {
				return err
			}
		}
		fmt.Fprintf(buf, "</%s>", name)
		return nil
	}

	fmt.Fprintf(buf, "<%s>", name)
	if err := xml.EscapeText(buf, []byte(scalarText(v))); err != nil {
		return err
	}
	fmt.Fprintf(buf, "</%s>", name)
	return nil
}

func scalarText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// node is a generic XML element tree.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

type responseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Nodes []node `xml:",any"`
	} `xml:"Body"`
}

// decodeResponse returns the first element of the SOAP Body as a record,
// typing leaves from out where no xsi:type is given. An empty Body yields
// a nil record. A Fault is returned as *Fault.
func decodeResponse(data []byte, out *typeNode) (map[string]any, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode SOAP envelope: %w", err)
	}
	if len(env.Body.Nodes) == 0 {
		return nil, nil
	}

	first := env.Body.Nodes[0]
	if first.XMLName.Local == "Fault" {
		return nil, newFault(first)
	}
	return first.record(out), nil
}

func (n node) value(t *typeNode) any {
	if n.attr(xsiNS, "nil") == "true" {
		return nil
	}
	if len(n.Nodes) == 0 {
		return n.scalar(t.simpleType())
	}
	return n.record(t)
}

// record maps child names to values; repeated children become arrays.
func (n node) record(t *typeNode) map[string]any {
	rec := make(map[string]any, len(n.Nodes))
	for _, c := range n.Nodes {
		name := c.XMLName.Local
		v := c.value(t.child(name))
		existing, ok := rec[name]
		if !ok {
			rec[name] = v
			continue
		}
		if arr, isArr := existing.([]any); isArr {
			rec[name] = append(arr, v)
		} else {
			rec[name] = []any{existing, v}
		}
	}
	return rec
}

// scalar converts the numeric and boolean XSD types and leaves everything
// else as text. An xsi:type attribute overrides the schema type.
func (n node) scalar(schemaType string) any {
	text := n.Content
	trimmed := strings.TrimSpace(text)

	typ := localName(n.attr(xsiNS, "type"))
	if typ == "" {
		typ = schemaType
	}
	switch typ {
	case "int", "integer", "long", "short", "byte",
		"unsignedInt", "unsignedLong", "unsignedShort", "unsignedByte",
		"positiveInteger", "negativeInteger", "nonNegativeInteger", "nonPositiveInteger":
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return i
		}
	case "decimal", "double", "float":
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	}
	return text
}

func (n node) attr(space, local string) string {
	for _, a := range n.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n node) child(local string) (node, bool) {
	for _, c := range n.Nodes {
		if c.XMLName.Local == local {
			return c, true
		}
	}
	return node{}, false
}

// Fault is a SOAP 1.1 or 1.2 fault returned by the service.
type Fault struct {
	Code   string
	String string
}

func (f *Fault) Error() string {
	if f.Code == "" {
		return f.String
	}
	return f.Code + ": " + f.String
}

func newFault(n node) *Fault {
	f := &Fault{}
	// SOAP 1.1
	if c, ok := n.child("faultcode"); ok {
		f.Code = strings.TrimSpace(c.Content)
	}
	if s, ok := n.child("faultstring"); ok {
		f.String = strings.TrimSpace(s.Content)
	}
	// SOAP 1.2
	if c, ok := n.child("Code"); ok {
		if v, ok := c.child("Value"); ok {
			f.Code = strings.TrimSpace(v.Content)
		}
	}
	if r, ok := n.child("Reason"); ok {
		if t, ok := r.child("Text"); ok {
			f.String = strings.TrimSpace(t.Content)
		}
	}
	if f.String == "" {
		f.String = "SOAP fault"
	}
	return f
}
