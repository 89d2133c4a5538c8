package importer

import (
	"fmt"
	"strings"
)

const maxPhases = 50

// ValidatePhaseFile checks the file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePhaseFile(file *PhaseFile) []error {
	if file == nil {
		return []error{fmt.Errorf("phase file is empty")}
	}

	var errs []error
	if len(file.Phases) == 0 {
		errs = append(errs, fmt.Errorf("phases: at least one phase is required"))
	}
	if len(file.Phases) > maxPhases {
		errs = append(errs, fmt.Errorf("phases: at most %d phases are allowed, got %d", maxPhases, len(file.Phases)))
	}

	seen := make(map[string]int)
	for i, p := range file.Phases {
		prefix := fmt.Sprintf("phases[%d]", i)
		title := strings.TrimSpace(p.Title)
		if title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		} else {
			key := strings.ToLower(title)
			if prev, dup := seen[key]; dup {
				errs = append(errs, fmt.Errorf("%s.title %q duplicates phases[%d]", prefix, title, prev))
			} else {
				seen[key] = i
			}
		}
		errs = append(errs, validateItems(prefix+".tasks", p.Tasks)...)
		errs = append(errs, validateItems(prefix+".success_criteria", p.SuccessCriteria)...)
	}
	return errs
}

func validateItems(prefix string, items []string) []error {
	var errs []error
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is blank", prefix, i))
		}
	}
	return errs
}
