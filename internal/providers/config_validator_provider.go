package providers

import (
	"energymon/internal/structures"
	"errors"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate runs the struct tag rules, then the cross-field rules tags cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	switch cv.conf.Source.Kind {
	case "rtdb":
		if cv.conf.Source.DatabaseURL == "" {
			return errors.New("source.databaseUrl is required for rtdb source")
		}
	case "file":
		if cv.conf.Source.ExportFile == "" {
			return errors.New("source.exportFile is required for file source")
		}
	}

	if cv.conf.Destination.Kind == "firestore" && cv.conf.Destination.ProjectID == "" {
		return errors.New("destination.projectId is required for firestore destination")
	}
	return nil
}
