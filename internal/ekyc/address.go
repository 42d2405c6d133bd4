package ekyc

import (
	"fmt"
	"strings"
)

// Address is the postal address carried by the document. VTC, District,
// State, Pincode and Country are required; the mapper rejects a record
// missing any of them. The remaining fields are optional.
type Address struct {
	CareOf     string `json:"care_of,omitempty"`
	House      string `json:"house,omitempty"`
	Street     string `json:"street,omitempty"`
	Landmark   string `json:"landmark,omitempty"`
	Locality   string `json:"locality,omitempty"`
	VTC        string `json:"vtc"` // village/town/city
	PostOffice string `json:"post_office,omitempty"`
	Subdist    string `json:"subdist,omitempty"`
	District   string `json:"district"`
	State      string `json:"state"`
	Pincode    string `json:"pincode"`
	Country    string `json:"country"`
}

// FullAddress renders the canonical single-line form, optional parts first.
func (a *Address) FullAddress() string {
	var parts []string
	if a.CareOf != "" {
		parts = append(parts, "C/O "+a.CareOf)
	}
	for _, s := range []string{a.House, a.Street, a.Landmark, a.Locality} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, a.VTC)
	if a.PostOffice != "" {
		parts = append(parts, "Post: "+a.PostOffice)
	}
	if a.Subdist != "" {
		parts = append(parts, a.Subdist)
	}
	parts = append(parts, a.District)
	parts = append(parts, fmt.Sprintf("%s - %s", a.State, a.Pincode))
	parts = append(parts, a.Country)
	return strings.Join(parts, ", ")
}

// stateCodes is the census numbering of Indian states and union territories.
// Closed set; anything else maps to 0 ("unrecognized"), never fabricated.
var stateCodes = map[string]uint32{
	"ANDHRA PRADESH":              28,
	"ARUNACHAL PRADESH":           12,
	"ASSAM":                       18,
	"BIHAR":                       10,
	"CHHATTISGARH":                22,
	"GOA":                         30,
	"GUJARAT":                     24,
	"HARYANA":                     6,
	"HIMACHAL PRADESH":            2,
	"JHARKHAND":                   20,
	"KARNATAKA":                   29,
	"KERALA":                      32,
	"MADHYA PRADESH":              23,
	"MAHARASHTRA":                 27,
	"MANIPUR":                     14,
	"MEGHALAYA":                   17,
	"MIZORAM":                     15,
	"NAGALAND":                    13,
	"ODISHA":                      21,
	"ORISSA":                      21, // pre-2011 spelling still appears on older documents
	"PUNJAB":                      3,
	"RAJASTHAN":                   8,
	"SIKKIM":                      11,
	"TAMIL NADU":                  33,
	"TELANGANA":                   36,
	"TRIPURA":                     16,
	"UTTAR PRADESH":               9,
	"UTTARAKHAND":                 5,
	"WEST BENGAL":                 19,
	"ANDAMAN AND NICOBAR ISLANDS": 35,
	"CHANDIGARH":                  4,
	"DADRA AND NAGAR HAVELI":      26,
	"DAMAN AND DIU":               25,
	"DELHI":                       7,
	"JAMMU AND KASHMIR":           1,
	"LADAKH":                      37,
	"LAKSHADWEEP":                 31,
	"PUDUCHERRY":                  34,
}

// StateCode maps the state name to its census numeric code. The match is
// case-insensitive and trimmed; unknown names return 0.
func (a *Address) StateCode() uint32 {
	return stateCodes[strings.ToUpper(strings.TrimSpace(a.State))]
}
