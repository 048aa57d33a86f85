package document

import "encoding/xml"

// Presence is a flag carried by the existence of an element rather than by its
// content. <bold/> means set; no element means unset.
type Presence uint8

const (
	Absent Presence = iota
	Present
)

// PresenceOf maps a bool onto the element flag.
func PresenceOf(set bool) Presence {
	if set {
		return Present
	}
	return Absent
}

// Bool maps the element flag back onto a bool.
func (p Presence) Bool() bool {
	return p == Present
}

// MarshalXML writes an empty element for Present and nothing for Absent.
// Absent fields are normally dropped earlier through omitempty.
func (p Presence) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if p == Absent {
		return nil
	}
	return e.EncodeElement("", start)
}

// UnmarshalXML marks the flag present whatever the element contains.
func (p *Presence) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*p = Present
	return d.Skip()
}
