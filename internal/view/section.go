package view

import (
	"fmt"

	"github.com/javivarba/chatbots/internal/constants"
)

type Section string

const (
	SectionStats        Section = "stats"
	SectionAppointments Section = "appointments"
)

func ParseSection(value string) (Section, error) {
	switch Section(value) {
	case SectionStats:
		return SectionStats, nil
	case SectionAppointments:
		return SectionAppointments, nil
	default:
		return "", NewError(constants.ErrCodeInvalidSection, fmt.Errorf("unknown section %q", value))
	}
}
