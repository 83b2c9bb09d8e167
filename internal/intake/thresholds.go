package intake

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"whitepaper-gen/internal/domain"
)

var validate = validator.New()

// LoadThresholds reads the thresholds block of the SAP YAML. Missing or
// non-numeric fields take their defaults, as do negative values. The
// returned error reports an unreadable file or the fields that were reset;
// the thresholds are usable either way.
func LoadThresholds(fsys afero.Fs, path string) (domain.Thresholds, error) {
	thr := domain.DefaultThresholds()

	data, err := readFile(fsys, path)
	if err != nil {
		return thr, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return thr, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	block, _ := doc["thresholds"].(map[string]any)

	set := func(dst *float64, key string) {
		if v := Float(block[key]); v != nil {
			*dst = *v
		}
	}
	set(&thr.AIRMin, "air_min")
	set(&thr.TPRGapMax, "tpr_gap_max")
	set(&thr.FPRGapMax, "fpr_gap_max")
	set(&thr.ECEMax, "ece_max")

	return checkThresholds(thr, path)
}

// checkThresholds resets each negative field to its default.
func checkThresholds(thr domain.Thresholds, path string) (domain.Thresholds, error) {
	err := validate.Struct(thr)
	if err == nil {
		return thr, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.DefaultThresholds(), fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	def := domain.DefaultThresholds()
	var reset []string
	for _, fe := range verrs {
		switch fe.StructField() {
		case "AIRMin":
			thr.AIRMin = def.AIRMin
		case "TPRGapMax":
			thr.TPRGapMax = def.TPRGapMax
		case "FPRGapMax":
			thr.FPRGapMax = def.FPRGapMax
		case "ECEMax":
			thr.ECEMax = def.ECEMax
		}
		reset = append(reset, fe.StructField())
	}
	return thr, fmt.Errorf("%w: %s: negative thresholds reset to default: %v", ErrMalformed, path, reset)
}
