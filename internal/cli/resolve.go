package cli

import (
	"context"
	"fmt"
	"strings"
)

// matchID resolves input against candidate ids: exact match first, then a
// unique prefix. names, when given, are matched case-insensitively after ids.
func matchID(kind, input string, ids, names []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 0 {
		for i, name := range names {
			if strings.EqualFold(name, input) {
				matches = append(matches, ids[i])
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

// resolveStudyID accepts a full id, an id prefix or a study name.
func resolveStudyID(ctx context.Context, app *App, input string) (string, error) {
	studies, err := app.Studies.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(studies))
	names := make([]string, len(studies))
	for i, s := range studies {
		ids[i], names[i] = s.ID, s.Name
	}
	return matchID("study", input, ids, names)
}

// resolveItemID accepts a line item id, id prefix or title within a study.
func resolveItemID(ctx context.Context, app *App, studyID, input string) (string, error) {
	items, err := app.LineItems.ListByStudy(ctx, studyID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(items))
	names := make([]string, len(items))
	for i, it := range items {
		ids[i], names[i] = it.ID, it.Title
	}
	return matchID("line item", input, ids, names)
}

// resolveTaskID accepts a task id, id prefix or title within a study.
func resolveTaskID(ctx context.Context, app *App, studyID, input string) (string, error) {
	tasks, err := app.Recruitment.ListTasks(ctx, studyID)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	names := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i], names[i] = t.ID, t.Title
	}
	return matchID("recruitment task", input, ids, names)
}
