package data

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"renewable-surplus/internal/model"
)

// DecodeDocument decodes a GL_MarketDocument. Acknowledgement payloads are
// rejected the same way the live client rejects them.
func DecodeDocument(r io.Reader) (*model.MarketDocument, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if IsErrorPayload(string(raw)) {
		return nil, model.InvalidResponse(string(raw))
	}
	var doc model.MarketDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse market document: %w", err)
	}
	return &doc, nil
}

// LoadDocumentXML reads a saved API response from disk.
func LoadDocumentXML(path string) (*model.MarketDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Acknowledgement is the document ENTSO-E sends instead of data when a query
// cannot be answered (no data, bad parameters, ...).
type Acknowledgement struct {
	XMLName xml.Name `xml:"Acknowledgement_MarketDocument"`
	MRID    string   `xml:"mRID"`
	Reasons []struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}

// ReasonText extracts "code: text" from an acknowledgement body. ok is false
// when body is not an acknowledgement.
func ReasonText(body string) (string, bool) {
	var ack Acknowledgement
	if err := xml.Unmarshal([]byte(body), &ack); err != nil || len(ack.Reasons) == 0 {
		return "", false
	}
	r := ack.Reasons[0]
	if r.Code == "" {
		return r.Text, true
	}
	return r.Code + ": " + r.Text, true
}
