package intake

import (
	"fmt"

	"github.com/spf13/afero"

	"whitepaper-gen/internal/domain"
)

// DefaultCertificatePaths are searched in order for the quality certificate.
var DefaultCertificatePaths = []string{
	"intake/certificates/synthetic_quality_certificate.json",
	"certificates/synthetic_quality_certificate.json",
}

// LoadCertificate reads the first existing path among paths. It returns the
// path used; when none exists the error wraps ErrMissing. A malformed first
// match is not skipped in favour of later paths.
func LoadCertificate(fsys afero.Fs, paths []string) (domain.QualityCertificate, string, error) {
	for _, p := range paths {
		if !Exists(fsys, p) {
			continue
		}
		root, err := readJSONObject(fsys, p)
		if err != nil {
			return domain.QualityCertificate{}, p, err
		}
		used := root.Get("quality_threshold_used")
		met := root.Get("quality_threshold_met")
		score := root.Get("overall_quality_score")
		return domain.QualityCertificate{
			HasThresholdUsed: present(used),
			ThresholdUsed:    jsonFloat(used),
			HasThresholdMet:  present(met),
			ThresholdMet:     jsonTruthy(met),
			HasScore:         present(score),
			Score:            jsonFloat(score),
		}, p, nil
	}
	return domain.QualityCertificate{}, "", fmt.Errorf("%w: no quality certificate in %v", ErrMissing, paths)
}
