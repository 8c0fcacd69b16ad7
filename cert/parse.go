package cert

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sanjacob/kangaroo/errors"
)

// fieldPrefix is the portal's element-id scheme: every data field sits
// in an element with id <prefix><field>_<field>_id.
const fieldPrefix = "_s_com_dgb_sep_domain_CertificadoRemesaDetalle_"

func fieldID(name string) string {
	return fieldPrefix + name + "_" + name + "_id"
}

// Parse extracts a certificate record from a portal detail page.
//
// A page without the plantel field is how the portal renders an
// unassigned certificate number; that surfaces as ErrNotFound. A page
// that has the plantel but is missing other expected fields means the
// portal layout changed underneath us and surfaces as ErrPageLayout.
func Parse(page io.Reader) (*Record, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse portal page")
	}

	if doc.Find("#" + fieldID("tmpNombrePlantel")).Length() == 0 {
		return nil, errors.ErrNotFound
	}

	required := []string{
		"tmpNombreCompleto",
		"tmpNombrePlantel",
		"tmpClaveCct",
		"tmpRvoe",
		"matricula",
		"promedio",
		"tmpPeriodo",
		"tmpTipoCertificado",
		"tmpFolioDigital",
	}
	fields := make(map[string]string, len(required))
	for _, name := range required {
		sel := doc.Find("#" + fieldID(name))
		if sel.Length() == 0 {
			return nil, errors.Wrapf(errors.ErrPageLayout, "missing field %s", name)
		}
		fields[name] = strings.TrimSpace(sel.First().Text())
	}

	record := &Record{
		Nombre:          fields["tmpNombreCompleto"],
		Plantel:         fields["tmpNombrePlantel"],
		ClaveTrabajo:    fields["tmpClaveCct"],
		RVOE:            fields["tmpRvoe"],
		Matricula:       fields["matricula"],
		Promedio:        fields["promedio"],
		Periodo:         fields["tmpPeriodo"],
		TipoCertificado: fields["tmpTipoCertificado"],
		Certificado:     fields["tmpFolioDigital"],
	}

	// CURP was removed from the portal around late 2019; keep it when
	// an older page still carries the field.
	if sel := doc.Find("#" + fieldID("idAlumno")); sel.Length() > 0 {
		record.CURP = strings.TrimSpace(sel.First().Text())
	}

	return record, nil
}
