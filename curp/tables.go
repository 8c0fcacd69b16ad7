package curp

// Static lookup tables for the CURP encoding rules. All of them are
// built once at package initialization and never mutated afterwards,
// which keeps Validate safe for concurrent callers.

// inconvenientWords is the RENAPO catalog of four-letter prefixes that
// would spell an offensive word. When the letters derived from a name
// land on one of these, the issuing authority replaces the second
// letter (the vowel) with X before printing the CURP.
var inconvenientWords = []string{
	"BACA", "BAKA", "BUEI", "BUEY",
	"CACA", "CACO", "CAGA", "CAGO", "CAKA", "CAKO",
	"COGE", "COGI", "COJA", "COJE", "COJI", "COJO", "COLA", "CULO",
	"FALO", "FETO",
	"GETA", "GUEI", "GUEY",
	"JETA", "JOTO",
	"KACA", "KACO", "KAGA", "KAGO", "KAKA", "KAKO",
	"KOGE", "KOGI", "KOJA", "KOJE", "KOJI", "KOJO", "KOLA", "KULO",
	"LILO", "LOCA", "LOCO", "LOKA", "LOKO",
	"MAME", "MAMO", "MEAR", "MEAS", "MEON", "MIAR", "MION",
	"MOCO", "MOKO", "MULA", "MULO",
	"NACA", "NACO",
	"PEDA", "PEDO", "PENE", "PIPI", "PITO", "POPO", "PUTA", "PUTO",
	"QULO",
	"RATA", "ROBA", "ROBE", "ROBO", "RUIN",
	"SENO",
	"TETA",
	"VACA", "VAGA", "VAGO", "VAKA", "VUEI", "VUEY",
	"WUEI", "WUEY",
}

// censoredForm maps each inconvenient prefix to its published
// substitution (second letter forced to X). The forward direction is a
// bijection from the catalog; the reverse is not, since pairs such as
// MEAR and MIAR collapse onto the same censored form. Decoding
// therefore reports every catalog word behind a censored prefix and
// lets the matcher pick the one the name supports.
var (
	censoredForm  map[string]string
	censorReverse map[string][]string
)

func init() {
	censoredForm = make(map[string]string, len(inconvenientWords))
	censorReverse = make(map[string][]string)

	for _, word := range inconvenientWords {
		censored := word[:1] + "X" + word[2:]
		censoredForm[word] = censored
		censorReverse[censored] = append(censorReverse[censored], word)
	}
}

// surnameParticles are the connecting words the encoding skips when
// taking letters from a surname ("DE LA CRUZ" contributes C, not D).
// Multi-word particles such as "DE LA" appear as runs of these tokens.
var surnameParticles = map[string]bool{
	"DA": true, "DAS": true, "DE": true, "DEL": true, "DER": true,
	"DI": true, "DIE": true, "DD": true,
	"EL": true, "LA": true, "LAS": true, "LE": true, "LES": true, "LOS": true,
	"MAC": true, "MC": true,
	"VAN": true, "VON": true,
	"Y": true,
}

// commonGivenNames are skipped when a compound given name starts with
// them: MARIA GUADALUPE contributes G to the CURP, not M.
var commonGivenNames = map[string]bool{
	"MARIA": true, "MA": true, "MA.": true,
	"JOSE": true, "J": true, "J.": true,
}

// stateCodes are the two-letter federal entity codes accepted at
// positions 11-12, including NE for people born abroad.
var stateCodes = map[string]bool{
	"AS": true, "BC": true, "BS": true, "CC": true, "CL": true,
	"CM": true, "CS": true, "CH": true, "DF": true, "DG": true,
	"GT": true, "GR": true, "HG": true, "JC": true, "MC": true,
	"MN": true, "MS": true, "NT": true, "NL": true, "OC": true,
	"PL": true, "QT": true, "QR": true, "SP": true, "SL": true,
	"SR": true, "TC": true, "TS": true, "TL": true, "VZ": true,
	"YN": true, "ZS": true, "NE": true,
}

func isVowel(b byte) bool {
	switch b {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

func isParticle(token string) bool {
	return surnameParticles[token]
}
