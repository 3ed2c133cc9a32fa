package resolve

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Aliases holds the ordered header candidates for each logical field of a
// voter row. Lists mix English and Devanagari variants; order is priority.
type Aliases struct {
	EpicNo           []string `yaml:"epic_no"`
	Name             []string `yaml:"name"`
	Age              []string `yaml:"age"`
	Gender           []string `yaml:"gender"`
	ParentSpouseName []string `yaml:"parent_spouse_name"`
	SerialNo         []string `yaml:"serial_no"`
	Part             []string `yaml:"part"`
	StationName      []string `yaml:"station_name"`
	StationAddress   []string `yaml:"station_address"`
}

// DefaultAliases returns the compiled-in alias lists covering the header
// variants seen across published electoral rolls.
func DefaultAliases() Aliases {
	return Aliases{
		EpicNo: []string{
			"EPIC", "EPIC No", "EPIC NO", "Epic Number", "Voter ID",
			"ID Card", "मतदार ओळखपत्र", "ओळखपत्र क्रमांक",
		},
		Name: []string{
			"Name", "Voter Name", "Full Name", "नाव", "मतदाराचे नाव",
		},
		Age: []string{
			"Age", "वय",
		},
		Gender: []string{
			"Gender", "Sex", "लिंग",
		},
		ParentSpouseName: []string{
			"Father Name", "Husband Name", "Father/Husband Name",
			"Parent Name", "Relation Name", "वडिलांचे नाव", "पतीचे नाव",
		},
		SerialNo: []string{
			"Serial No", "Serial", "Sr No", "S.No", "अनुक्रमांक", "अनु क्र",
		},
		Part: []string{
			"Part No", "Part", "Booth", "भाग क्रमांक", "भाग",
		},
		StationName: []string{
			"Polling Station", "Station Name", "मतदान केंद्र",
		},
		StationAddress: []string{
			"Station Address", "Address", "पत्ता",
		},
	}
}

// LoadAliases reads alias lists from a YAML file. Fields left empty in the
// file keep their compiled-in defaults.
func LoadAliases(path string) (Aliases, error) {
	out := DefaultAliases()
	b, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read alias file: %w", err)
	}
	var file Aliases
	if err := yaml.Unmarshal(b, &file); err != nil {
		return out, fmt.Errorf("parse alias file: %w", err)
	}
	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&out.EpicNo, file.EpicNo)
	merge(&out.Name, file.Name)
	merge(&out.Age, file.Age)
	merge(&out.Gender, file.Gender)
	merge(&out.ParentSpouseName, file.ParentSpouseName)
	merge(&out.SerialNo, file.SerialNo)
	merge(&out.Part, file.Part)
	merge(&out.StationName, file.StationName)
	merge(&out.StationAddress, file.StationAddress)
	return out, nil
}
