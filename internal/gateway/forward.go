package gateway

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/errors"
)

// Forward-rule record layout: enabled,kind,proto,wan-port,lan-addr,lan-port,remark
const (
	fieldEnabled = 0
	fieldKind    = 1
	fieldRemark  = 6
	fieldCount   = 7

	// kindInbound is the rule-kind tag for inbound destination
	// translation, the only kind eligible for toggling.
	kindInbound = "dnat"

	enabledOn  = "ON"
	enabledOff = ""
)

func enabledValueFor(desired State) string {
	if desired == Open {
		return enabledOn
	}
	return enabledOff
}

// ToggleForwardRule sets the enabled field of the unique eligible record
// whose remark equals label. Everything else in the file (other fields,
// record count, ordering, blank lines) is preserved unchanged. Zero or
// multiple matches fail with ErrRuleNotFound before anything is written.
func (s *FileStore) ToggleForwardRule(label string, desired State) error {
	data, mode, err := readControlFile(s.rulePath)
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	matchIdx, matchFields, err := findRule(lines, label)
	if err != nil {
		return err
	}

	want := enabledValueFor(desired)
	if matchFields[fieldEnabled] == want {
		s.logger.Info("forward rule already in desired state",
			zap.String("label", label),
			zap.String("window", desired.String()),
		)
		return nil
	}

	matchFields[fieldEnabled] = want
	lines[matchIdx] = strings.Join(matchFields, ",")

	if err := writeFileAtomic(s.rulePath, []byte(strings.Join(lines, "\n")), mode); err != nil {
		return err
	}

	s.logger.Info("forward rule toggled",
		zap.String("label", label),
		zap.String("window", desired.String()),
	)
	return nil
}

// ForwardRuleState reports the window state of the labelled rule.
func (s *FileStore) ForwardRuleState(label string) (State, error) {
	data, _, err := readControlFile(s.rulePath)
	if err != nil {
		return Closed, err
	}
	_, fields, err := findRule(strings.Split(string(data), "\n"), label)
	if err != nil {
		return Closed, err
	}
	if fields[fieldEnabled] == enabledOn {
		return Open, nil
	}
	return Closed, nil
}

// findRule returns the line index and split fields of the single
// eligible record matching label. A record is eligible only when it has
// the full field count and its kind tag is the inbound-translation kind;
// records of other kinds never count as matches even with the same
// remark. Anything other than exactly one match is ErrRuleNotFound.
func findRule(lines []string, label string) (int, []string, error) {
	matchIdx := -1
	var matchFields []string

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != fieldCount {
			continue
		}
		if fields[fieldKind] != kindInbound || fields[fieldRemark] != label {
			continue
		}
		if matchIdx >= 0 {
			return 0, nil, errors.RuleNotFound(label)
		}
		matchIdx = i
		matchFields = fields
	}

	if matchIdx < 0 {
		return 0, nil, errors.RuleNotFound(label)
	}
	return matchIdx, matchFields, nil
}
