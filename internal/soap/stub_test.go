package soap

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const testNamespace = "http://walletsoap.local/wallet"

// testWSDL takes the port address as its only verb.
const testWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<definitions name="WalletService" targetNamespace="http://walletsoap.local/wallet"
  xmlns="http://schemas.xmlsoap.org/wsdl/"
  xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
  xmlns:tns="http://walletsoap.local/wallet"
  xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <types>
    <xsd:schema targetNamespace="http://walletsoap.local/wallet" elementFormDefault="qualified">
      <xsd:simpleType name="Amount"><xsd:restriction base="xsd:decimal"/></xsd:simpleType>
      <xsd:complexType name="WalletResult">
        <xsd:sequence>
          <xsd:element name="success" type="xsd:boolean"/>
          <xsd:element name="codError" type="xsd:string"/>
          <xsd:element name="messageError" type="xsd:string"/>
        </xsd:sequence>
      </xsd:complexType>
      <xsd:complexType name="BalanceResult">
        <xsd:complexContent>
          <xsd:extension base="tns:WalletResult">
            <xsd:sequence>
              <xsd:element name="data">
                <xsd:complexType>
                  <xsd:sequence>
                    <xsd:element name="balance" type="tns:Amount"/>
                    <xsd:element name="movements" type="xsd:int"/>
                  </xsd:sequence>
                </xsd:complexType>
              </xsd:element>
            </xsd:sequence>
          </xsd:extension>
        </xsd:complexContent>
      </xsd:complexType>
      <xsd:element name="RegisterClientResponse">
        <xsd:complexType>
          <xsd:sequence><xsd:element name="RegisterClientResult" type="tns:WalletResult"/></xsd:sequence>
        </xsd:complexType>
      </xsd:element>
      <xsd:element name="GetWalletBalanceResult" type="tns:BalanceResult"/>
      <xsd:element name="GetWalletBalanceResponse">
        <xsd:complexType>
          <xsd:sequence><xsd:element ref="tns:GetWalletBalanceResult"/></xsd:sequence>
        </xsd:complexType>
      </xsd:element>
    </xsd:schema>
  </types>
  <message name="RegisterClientInput"><part name="parameters" element="tns:RegisterClient"/></message>
  <message name="RegisterClientOutput"><part name="parameters" element="tns:RegisterClientResponse"/></message>
  <message name="GetWalletBalanceInput"><part name="parameters" element="tns:GetWalletBalance"/></message>
  <message name="GetWalletBalanceOutput"><part name="parameters" element="tns:GetWalletBalanceResponse"/></message>
  <portType name="WalletPortType">
    <operation name="RegisterClient">
      <input message="tns:RegisterClientInput"/>
      <output message="tns:RegisterClientOutput"/>
    </operation>
    <operation name="GetWalletBalance">
      <input message="tns:GetWalletBalanceInput"/>
      <output message="tns:GetWalletBalanceOutput"/>
    </operation>
  </portType>
  <binding name="WalletBinding" type="tns:WalletPortType">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
    <operation name="RegisterClient">
      <soap:operation soapAction="RegisterClient"/>
      <input><soap:body use="literal"/></input>
      <output><soap:body use="literal"/></output>
    </operation>
    <operation name="GetWalletBalance">
      <soap:operation soapAction="GetWalletBalance"/>
      <input><soap:body use="literal"/></input>
      <output><soap:body use="literal"/></output>
    </operation>
  </binding>
  <service name="WalletService">
    <port name="WalletPort" binding="tns:WalletBinding">
      <soap:address location="%s"/>
    </port>
  </service>
</definitions>`

func soapReply(body string) string {
	return `<?xml version="1.0" encoding="utf-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
		` xmlns:xsd="http://www.w3.org/2001/XMLSchema"` +
		` xmlns:tns="http://walletsoap.local/wallet">` +
		`<soap:Body>` + body + `</soap:Body></soap:Envelope>`
}

func resultReply(operation, result string) string {
	return soapReply(fmt.Sprintf("<tns:%[1]sResponse><tns:%[1]sResult>%[2]s</tns:%[1]sResult></tns:%[1]sResponse>", operation, result))
}

type capturedRequest struct {
	Action      string
	ContentType string
	Body        string
}

// stubService serves testWSDL on GET and answers SOAP POSTs with respond.
type stubService struct {
	srv      *httptest.Server
	wsdlHits atomic.Int32
	respond  func(action, body string) (int, string)

	mu       sync.Mutex
	requests []capturedRequest
}

func newStubService(t *testing.T, respond func(action, body string) (int, string)) *stubService {
	t.Helper()
	s := &stubService{respond: respond}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			s.wsdlHits.Add(1)
			w.Header().Set("Content-Type", "text/xml")
			fmt.Fprintf(w, testWSDL, s.srv.URL+"/wsdl")
			return
		}

		body, _ := io.ReadAll(r.Body)
		action := strings.Trim(r.Header.Get("SOAPAction"), `"`)
		s.mu.Lock()
		s.requests = append(s.requests, capturedRequest{
			Action:      action,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		s.mu.Unlock()

		status, reply := s.respond(action, string(body))
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *stubService) wsdlURL() string {
	return s.srv.URL + "/wsdl?wsdl"
}

func (s *stubService) lastRequest() capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return capturedRequest{}
	}
	return s.requests[len(s.requests)-1]
}
