// Package cert models the certificate records published by the DGB
// certificate portal and parses them out of the portal's HTML pages.
package cert

import (
	"github.com/sanjacob/kangaroo/curp"
)

// Record is one graduation certificate as published by the portal.
// JSON keys match the export format of the original batch files.
type Record struct {
	Number          int    `json:"number,omitempty"`
	Nombre          string `json:"nombre"`
	Plantel         string `json:"plantel"`
	ClaveTrabajo    string `json:"clave_trabajo"`
	RVOE            string `json:"rvoe"`
	CURP            string `json:"curp,omitempty"`
	Matricula       string `json:"matricula"`
	Promedio        string `json:"promedio"`
	Periodo         string `json:"periodo"`
	TipoCertificado string `json:"tipo_certificado"`
	Certificado     string `json:"certificado"`

	// Identidad carries the CURP-versus-name decomposition when the
	// record includes a CURP and it matches the declared name.
	Identidad *curp.NameParts `json:"identidad,omitempty"`
}

// HasCURP reports whether the record carries a CURP. The portal
// stopped publishing the field around late 2019, so newer records
// cannot be identity-checked.
func (r *Record) HasCURP() bool {
	return r.CURP != ""
}

// ValidateIdentity checks the record's CURP against its declared full
// name and, on a match, stores the decomposed name on the record.
// Records without a CURP report ok=false with a nil error.
func (r *Record) ValidateIdentity() (curp.NameParts, bool, error) {
	if !r.HasCURP() {
		return curp.NameParts{}, false, nil
	}
	parts, ok, err := curp.Validate(r.CURP, r.Nombre)
	if err != nil {
		return curp.NameParts{}, false, err
	}
	if ok {
		r.Identidad = &parts
	}
	return parts, ok, err
}
