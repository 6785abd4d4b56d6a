package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpeciality is returned when a value does not name a known speciality.
var ErrInvalidSpeciality = errors.New("invalid speciality")

// Speciality is the medical field of a caregiver.
type Speciality string

const (
	SpecialityDokterUmum             Speciality = "DOKTER_UMUM"
	SpecialitySpesialisAnak          Speciality = "SPESIALIS_ANAK"
	SpecialitySpesialisKulit         Speciality = "SPESIALIS_KULIT"
	SpecialitySpesialisPenyakitDalam Speciality = "SPESIALIS_PENYAKIT_DALAM"
)

// Specialities lists every known speciality in declaration order.
var Specialities = []Speciality{
	SpecialityDokterUmum,
	SpecialitySpesialisAnak,
	SpecialitySpesialisKulit,
	SpecialitySpesialisPenyakitDalam,
}

var specialityDisplayNames = map[Speciality]string{
	SpecialityDokterUmum:             "Dokter Umum",
	SpecialitySpesialisAnak:          "Spesialis Anak",
	SpecialitySpesialisKulit:         "Spesialis Kulit",
	SpecialitySpesialisPenyakitDalam: "Spesialis Penyakit Dalam",
}

// DisplayName returns the human readable name of the speciality.
func (s Speciality) DisplayName() string {
	return specialityDisplayNames[s]
}

// Valid reports whether s is a known speciality.
func (s Speciality) Valid() bool {
	_, ok := specialityDisplayNames[s]
	return ok
}

// ParseSpeciality accepts either the constant name or the display name, ignoring case.
func ParseSpeciality(value string) (Speciality, error) {
	v := strings.TrimSpace(value)
	for _, s := range Specialities {
		if strings.EqualFold(string(s), v) || strings.EqualFold(s.DisplayName(), v) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidSpeciality, value)
}

// SpecialityNames returns the constant names, formatted like "[DOKTER_UMUM, SPESIALIS_ANAK]".
func SpecialityNames() string {
	names := make([]string, 0, len(Specialities))
	for _, s := range Specialities {
		names = append(names, string(s))
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// UnmarshalJSON accepts the constant name or the display name.
func (s *Speciality) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseSpeciality(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
