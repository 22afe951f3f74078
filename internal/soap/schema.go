package soap

// maxSchemaDepth stops element references that nest into themselves.
const maxSchemaDepth = 32

// typeNode is the schema shape of a reply element. Leaves carry the local
// name of their XSD type; records carry their children by element name.
// A nil *typeNode means the shape is unknown and every leaf stays text.
type typeNode struct {
	simple   string
	children map[string]*typeNode
}

func (t *typeNode) child(name string) *typeNode {
	if t == nil {
		return nil
	}
	return t.children[name]
}

func (t *typeNode) simpleType() string {
	if t == nil {
		return ""
	}
	return t.simple
}

// XML Schema declarations found under wsdl:types.
type xsdSchema struct {
	Elements     []xsdElement     `xml:"element"`
	ComplexTypes []xsdComplexType `xml:"complexType"`
	SimpleTypes  []xsdSimpleType  `xml:"simpleType"`
}

type xsdElement struct {
	Name        string          `xml:"name,attr"`
	Type        string          `xml:"type,attr"`
	Ref         string          `xml:"ref,attr"`
	ComplexType *xsdComplexType `xml:"complexType"`
	SimpleType  *xsdSimpleType  `xml:"simpleType"`
}

type xsdComplexType struct {
	Name      string       `xml:"name,attr"`
	Sequence  []xsdElement `xml:"sequence>element"`
	All       []xsdElement `xml:"all>element"`
	Choice    []xsdElement `xml:"choice>element"`
	Extension struct {
		Base     string       `xml:"base,attr"`
		Sequence []xsdElement `xml:"sequence>element"`
	} `xml:"complexContent>extension"`
}

type xsdSimpleType struct {
	Name        string `xml:"name,attr"`
	Restriction struct {
		Base string `xml:"base,attr"`
	} `xml:"restriction"`
}

// schemaIndex resolves declarations by local name across every schema of
// a WSDL document.
type schemaIndex struct {
	elements map[string]xsdElement
	complex  map[string]xsdComplexType
	simple   map[string]string
	built    map[string]*typeNode
}

func newSchemaIndex(schemas []xsdSchema) *schemaIndex {
	s := &schemaIndex{
		elements: make(map[string]xsdElement),
		complex:  make(map[string]xsdComplexType),
		simple:   make(map[string]string),
		built:    make(map[string]*typeNode),
	}
	for _, sc := range schemas {
		for _, e := range sc.Elements {
			s.elements[e.Name] = e
		}
		for _, ct := range sc.ComplexTypes {
			s.complex[ct.Name] = ct
		}
		for _, st := range sc.SimpleTypes {
			s.simple[st.Name] = localName(st.Restriction.Base)
		}
	}
	return s
}

// globalElement returns the shape of a top-level element, or nil.
func (s *schemaIndex) globalElement(qname string) *typeNode {
	e, ok := s.elements[localName(qname)]
	if !ok {
		return nil
	}
	return s.element(e, 0)
}

func (s *schemaIndex) element(e xsdElement, depth int) *typeNode {
	if depth > maxSchemaDepth {
		return nil
	}
	switch {
	case e.Ref != "":
		g, ok := s.elements[localName(e.Ref)]
		if !ok {
			return nil
		}
		return s.element(g, depth+1)
	case e.ComplexType != nil:
		n := &typeNode{children: make(map[string]*typeNode)}
		s.fill(n, *e.ComplexType, depth+1)
		return n
	case e.SimpleType != nil:
		return &typeNode{simple: s.simpleBase(localName(e.SimpleType.Restriction.Base))}
	case e.Type != "":
		return s.named(e.Type, depth+1)
	default:
		return nil
	}
}

// named resolves a type reference. Complex types are memoized before they
// are filled, so recursive types terminate.
func (s *schemaIndex) named(qname string, depth int) *typeNode {
	name := localName(qname)
	if n, ok := s.built[name]; ok {
		return n
	}
	ct, ok := s.complex[name]
	if !ok {
		return &typeNode{simple: s.simpleBase(name)}
	}
	n := &typeNode{children: make(map[string]*typeNode)}
	s.built[name] = n
	s.fill(n, ct, depth)
	return n
}

func (s *schemaIndex) fill(n *typeNode, ct xsdComplexType, depth int) {
	if depth > maxSchemaDepth {
		return
	}
	if ct.Extension.Base != "" {
		base := s.named(ct.Extension.Base, depth+1)
		for k, v := range base.children {
			n.children[k] = v
		}
	}
	for _, group := range [][]xsdElement{ct.Sequence, ct.All, ct.Choice, ct.Extension.Sequence} {
		for _, e := range group {
			name := e.Name
			if name == "" {
				name = localName(e.Ref)
			}
			n.children[name] = s.element(e, depth+1)
		}
	}
}

// simpleBase follows named simple-type restrictions down to a built-in type.
func (s *schemaIndex) simpleBase(name string) string {
	for i := 0; i < maxSchemaDepth; i++ {
		base, ok := s.simple[name]
		if !ok {
			return name
		}
		name = base
	}
	return name
}
