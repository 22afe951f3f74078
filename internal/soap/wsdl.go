package soap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	soap11BindingNS = "http://schemas.xmlsoap.org/wsdl/soap/"
	soap12BindingNS = "http://schemas.xmlsoap.org/wsdl/soap12/"
)

// Version is the SOAP envelope version a binding speaks.
type Version int

const (
	SOAP11 Version = iota
	SOAP12
)

// operationSpec is everything needed to call one bound operation.
type operationSpec struct {
	Name      string
	Action    string
	Element   string
	Namespace string
	Location  string
	Version   Version
	// Output is the schema shape of the reply element, nil when the
	// WSDL does not declare it.
	Output *typeNode
}

// WSDL 1.1 documents. Tags use local names only, so both the wsdl: and
// default-namespace spellings decode, as do soap: and soap12: extensions.
type definitions struct {
	XMLName         xml.Name `xml:"definitions"`
	TargetNamespace string   `xml:"targetNamespace,attr"`
	Types           struct {
		Schemas []xsdSchema `xml:"schema"`
	} `xml:"types"`
	Messages  []message  `xml:"message"`
	PortTypes []portType `xml:"portType"`
	Bindings  []binding  `xml:"binding"`
	Services  []service  `xml:"service"`
}

type message struct {
	Name  string `xml:"name,attr"`
	Parts []struct {
		Name    string `xml:"name,attr"`
		Element string `xml:"element,attr"`
		Type    string `xml:"type,attr"`
	} `xml:"part"`
}

type portType struct {
	Name       string `xml:"name,attr"`
	Operations []struct {
		Name  string `xml:"name,attr"`
		Input struct {
			Message string `xml:"message,attr"`
		} `xml:"input"`
		Output struct {
			Message string `xml:"message,attr"`
		} `xml:"output"`
	} `xml:"operation"`
}

type binding struct {
	Name        string `xml:"name,attr"`
	Type        string `xml:"type,attr"`
	SOAPBinding struct {
		XMLName xml.Name
		Style   string `xml:"style,attr"`
	} `xml:"binding"`
	Operations []struct {
		Name          string `xml:"name,attr"`
		SOAPOperation struct {
			SOAPAction string `xml:"soapAction,attr"`
			Style      string `xml:"style,attr"`
		} `xml:"operation"`
	} `xml:"operation"`
}

type service struct {
	Name  string `xml:"name,attr"`
	Ports []struct {
		Name    string `xml:"name,attr"`
		Binding string `xml:"binding,attr"`
		Address struct {
			Location string `xml:"location,attr"`
		} `xml:"address"`
	} `xml:"port"`
}

// parseWSDL resolves every SOAP operation reachable through a service port.
// When two ports expose the same operation the first one wins.
func parseWSDL(data []byte, wsdlURL string) ([]operationSpec, error) {
	var defs definitions
	if err := xml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse WSDL: %w", err)
	}

	messages := make(map[string]message, len(defs.Messages))
	for _, m := range defs.Messages {
		messages[m.Name] = m
	}
	portTypes := make(map[string]portType, len(defs.PortTypes))
	for _, pt := range defs.PortTypes {
		portTypes[pt.Name] = pt
	}
	schema := newSchemaIndex(defs.Types.Schemas)
	bindings := make(map[string]binding, len(defs.Bindings))
	for _, b := range defs.Bindings {
		bindings[b.Name] = b
	}

	var specs []operationSpec
	seen := make(map[string]bool)
	for _, svc := range defs.Services {
		for _, p := range svc.Ports {
			b, ok := bindings[localName(p.Binding)]
			if !ok {
				continue
			}

			var version Version
			switch b.SOAPBinding.XMLName.Space {
			case soap11BindingNS:
				version = SOAP11
			case soap12BindingNS:
				version = SOAP12
			default:
				// HTTP or other non-SOAP binding
				continue
			}

			location := p.Address.Location
			if location == "" {
				location = endpointFromWSDL(wsdlURL)
			}
			pt := portTypes[localName(b.Type)]

			for _, op := range b.Operations {
				if seen[op.Name] {
					continue
				}
				seen[op.Name] = true

				spec := operationSpec{
					Name:      op.Name,
					Action:    op.SOAPOperation.SOAPAction,
					Element:   op.Name,
					Namespace: defs.TargetNamespace,
					Location:  location,
					Version:   version,
				}

				style := op.SOAPOperation.Style
				if style == "" {
					style = b.SOAPBinding.Style
				}
				rpc := style == "rpc"
				if !rpc {
					if el := inputElement(pt, op.Name, messages); el != "" {
						spec.Element = el
					}
				}
				spec.Output = outputShape(pt, op.Name, messages, schema, rpc)
				specs = append(specs, spec)
			}
		}
	}

	if len(specs) == 0 {
		return nil, errors.New("WSDL declares no SOAP operations")
	}
	return specs, nil
}

// inputElement returns the element of the operation's first input part.
func inputElement(pt portType, operation string, messages map[string]message) string {
	for _, op := range pt.Operations {
		if op.Name != operation {
			continue
		}
		m, ok := messages[localName(op.Input.Message)]
		if !ok || len(m.Parts) == 0 {
			return ""
		}
		return localName(m.Parts[0].Element)
	}
	return ""
}

// outputShape describes the reply element of an operation. Document style
// replies are the output part's element; rpc replies wrap one child per part.
func outputShape(pt portType, operation string, messages map[string]message, schema *schemaIndex, rpc bool) *typeNode {
	for _, op := range pt.Operations {
		if op.Name != operation {
			continue
		}
		m, ok := messages[localName(op.Output.Message)]
		if !ok || len(m.Parts) == 0 {
			return nil
		}
		if !rpc {
			return schema.globalElement(m.Parts[0].Element)
		}

		n := &typeNode{children: make(map[string]*typeNode, len(m.Parts))}
		for _, part := range m.Parts {
			if part.Element != "" {
				n.children[part.Name] = schema.globalElement(part.Element)
			} else if part.Type != "" {
				n.children[part.Name] = schema.named(part.Type, 0)
			}
		}
		return n
	}
	return nil
}

func localName(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

func endpointFromWSDL(wsdlURL string) string {
	u, err := url.Parse(wsdlURL)
	if err != nil {
		return wsdlURL
	}
	u.RawQuery = ""
	return u.String()
}
