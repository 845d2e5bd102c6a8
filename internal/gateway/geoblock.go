package gateway

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/errors"
)

// Geo filter values as the filtering engine expects them. The filter
// blocks traffic when on, so an Open window turns it off.
const (
	geoValueOn  = "on"
	geoValueOff = "off"
)

func geoValueFor(desired State) string {
	if desired == Open {
		return geoValueOff
	}
	return geoValueOn
}

// ToggleGeoBlock sets the geo filter key to match the desired window
// state. Applying the current state is a no-op success.
func (s *FileStore) ToggleGeoBlock(desired State) error {
	data, mode, err := readControlFile(s.geoPath)
	if err != nil {
		return err
	}

	current, lineIdx, lines, err := s.parseGeoFilter(string(data))
	if err != nil {
		return err
	}

	want := geoValueFor(desired)
	if current == want {
		s.logger.Info("geo filter already in desired state",
			zap.String("window", desired.String()),
			zap.String("value", current),
		)
		return nil
	}

	lines[lineIdx] = s.geoKey + "=" + want
	if err := writeFileAtomic(s.geoPath, []byte(strings.Join(lines, "\n")), mode); err != nil {
		return err
	}

	s.logger.Info("geo filter toggled",
		zap.String("window", desired.String()),
		zap.String("from", current),
		zap.String("to", want),
	)
	return nil
}

// GeoBlockState reports the window state implied by the current value.
func (s *FileStore) GeoBlockState() (State, error) {
	data, _, err := readControlFile(s.geoPath)
	if err != nil {
		return Closed, err
	}
	current, _, _, err := s.parseGeoFilter(string(data))
	if err != nil {
		return Closed, err
	}
	if current == geoValueOff {
		return Open, nil
	}
	return Closed, nil
}

// parseGeoFilter locates the filter key line and validates its value.
// Returns the current value, the line index, and the split lines so the
// caller can edit in place.
func (s *FileStore) parseGeoFilter(content string) (string, int, []string, error) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found || key != s.geoKey {
			continue
		}
		if value != geoValueOn && value != geoValueOff {
			return "", 0, nil, errors.WrapTarget(errors.ErrCodeConfig,
				"geo filter has unexpected value", s.geoPath,
				fmt.Errorf("%s=%q, want on or off", s.geoKey, value))
		}
		return value, i, lines, nil
	}
	return "", 0, nil, errors.WrapTarget(errors.ErrCodeConfig,
		"geo filter key not found", s.geoPath,
		fmt.Errorf("no %s= line", s.geoKey))
}
