package model

import (
	"encoding/xml"
	"math"
)

// MarketDocument matches the XML shape of an ENTSO-E GL_MarketDocument
// (generation and load forecasts, documentType A65/A71).
//
// Example:
// <GL_MarketDocument>
//   <mRID>…</mRID>
//   <type>A65</type>
//   <time_Period.timeInterval><start>2023-08-14T00:00Z</start>…</time_Period.timeInterval>
//   <TimeSeries>…</TimeSeries>
// </GL_MarketDocument>
type MarketDocument struct {
	XMLName xml.Name `xml:"GL_MarketDocument"`

	MRID            string        `xml:"mRID"`
	RevisionNumber  string        `xml:"revisionNumber"`
	Type            string        `xml:"type"`
	ProcessType     string        `xml:"process.processType"`
	Sender          ParticipantID `xml:"sender_MarketParticipant.mRID"`
	SenderRole      string        `xml:"sender_MarketParticipant.marketRole.type"`
	Receiver        ParticipantID `xml:"receiver_MarketParticipant.mRID"`
	ReceiverRole    string        `xml:"receiver_MarketParticipant.marketRole.type"`
	CreatedDateTime string        `xml:"createdDateTime"`
	TimePeriod      TimeInterval  `xml:"time_Period.timeInterval"`

	TimeSeries []TimeSeries `xml:"TimeSeries"`
}

type ParticipantID struct {
	Value        string `xml:",chardata"`
	CodingScheme string `xml:"codingScheme,attr"`
}

type AreaID struct {
	Value        string `xml:",chardata"`
	CodingScheme string `xml:"codingScheme,attr"`
}

type TimeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

// TimeSeries is one sub-series of a document. A document may carry several
// (per production type, per bidding zone) whose points land on the same
// instants.
type TimeSeries struct {
	MRID              string  `xml:"mRID"`
	BusinessType      string  `xml:"businessType"`
	ObjectAggregation string  `xml:"objectAggregation"`
	OutBiddingZone    *AreaID `xml:"outBiddingZone_Domain.mRID"`
	InBiddingZone     *AreaID `xml:"inBiddingZone_Domain.mRID"`
	QuantityUnit      string  `xml:"quantity_Measure_Unit.name"`
	CurveType         string  `xml:"curveType"`
	Period            Period  `xml:"Period"`
}

// Domain returns the bidding zone the series is tagged with, or "".
func (ts TimeSeries) Domain() string {
	if ts.InBiddingZone != nil {
		return ts.InBiddingZone.Value
	}
	if ts.OutBiddingZone != nil {
		return ts.OutBiddingZone.Value
	}
	return ""
}

// Period carries the encoded points of one series: timestamps are implied by
// TimeInterval.Start, Resolution and each point's 1-based Position.
type Period struct {
	TimeInterval TimeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Points       []Point      `xml:"Point"`
}

type Point struct {
	Position int     `xml:"position"`
	Quantity float64 `xml:"quantity"`
}

// PointCount returns the number of raw points across all series.
func (d *MarketDocument) PointCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, ts := range d.TimeSeries {
		n += len(ts.Period.Points)
	}
	return n
}

// TotalQuantity sums every raw point quantity.
func (d *MarketDocument) TotalQuantity() float64 {
	if d == nil {
		return 0
	}
	sum := 0.0
	for _, ts := range d.TimeSeries {
		for _, p := range ts.Period.Points {
			sum += p.Quantity
		}
	}
	return sum
}

// AverageQuantity is the mean raw quantity, or 0 for an empty document.
func (d *MarketDocument) AverageQuantity() float64 {
	n := d.PointCount()
	if n == 0 {
		return 0
	}
	return d.TotalQuantity() / float64(n)
}

// MinMax scans raw quantities across all series. It is not timestamp aware;
// ok is false when the document has no points at all.
func (d *MarketDocument) MinMax() (lo, hi float64, ok bool) {
	if d.PointCount() == 0 {
		return 0, 0, false
	}
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, ts := range d.TimeSeries {
		for _, p := range ts.Period.Points {
			if p.Quantity < lo {
				lo = p.Quantity
			}
			if p.Quantity > hi {
				hi = p.Quantity
			}
		}
	}
	return lo, hi, true
}
