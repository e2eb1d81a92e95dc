package selection

import (
	"strconv"

	"github.com/voxelfit/batchfit/pkg/subject"
	"github.com/voxelfit/batchfit/pkg/tools/errorutils"
)

// Selection is a post discovery filter over the subject list.
type Selection interface {
	GetSelection(subjects []subject.Info) ([]subject.Info, error)
}

// AllSubjects selects every discovered subject.
type AllSubjects struct{}

func (AllSubjects) GetSelection(subjects []subject.Info) ([]subject.Info, error) {
	return subjects, nil
}

// SelectedSubjects selects subjects by id, by index and by a starting
// position. The three dimensions compose as an intersection: a subject is
// selected when its position is at or after the start, its position is in
// Indices (when given) and its id is in SubjectIDs (when given).
type SelectedSubjects struct {
	// SubjectIDs selects subjects by id. Nil ignores this dimension.
	SubjectIDs []string

	// Indices selects subjects by position in the discovered list. Nil
	// ignores this dimension. Selecting by index is unsafe when the
	// discovery order may change between runs.
	Indices []int

	// StartFrom names the first subject to process, either as a subject id
	// or as an integer position. Empty means start at the beginning.
	StartFrom string
}

func (s *SelectedSubjects) GetSelection(subjects []subject.Info) ([]subject.Info, error) {
	start, err := s.startingPos(subjects)
	if err != nil {
		return nil, err
	}

	if s.Indices == nil && s.SubjectIDs == nil {
		return subjects[start:], nil
	}

	indexSet := make(map[int]bool, len(s.Indices))
	for _, index := range s.Indices {
		indexSet[index] = true
	}
	idSet := make(map[string]bool, len(s.SubjectIDs))
	for _, id := range s.SubjectIDs {
		idSet[id] = true
	}

	var selected []subject.Info
	for i, subj := range subjects {
		if i < start {
			continue
		}
		if s.Indices != nil && !indexSet[i] {
			continue
		}
		if s.SubjectIDs != nil && !idSet[subj.SubjectID()] {
			continue
		}
		selected = append(selected, subj)
	}
	return selected, nil
}

// startingPos resolves StartFrom to a position, preferring an exact subject
// id match and falling back to an integer index. An unresolvable StartFrom
// is an error rather than a silent full selection.
func (s *SelectedSubjects) startingPos(subjects []subject.Info) (int, error) {
	if s.StartFrom == "" {
		return 0, nil
	}
	for i, subj := range subjects {
		if subj.SubjectID() == s.StartFrom {
			return i, nil
		}
	}
	if index, err := strconv.Atoi(s.StartFrom); err == nil {
		if index >= 0 && index < len(subjects) {
			return index, nil
		}
	}
	return 0, &errorutils.SubjectNotFoundError{SubjectID: s.StartFrom}
}

var (
	_ Selection = AllSubjects{}
	_ Selection = &SelectedSubjects{}
)
