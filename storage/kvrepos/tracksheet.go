package kvrepos

import (
	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/tracksheet"
)

// SheetRepository stores the fiches as a map keyed by project id; one
// sheet per project. Default-sheet construction is the service's concern,
// the repository only stores what it is given.
type SheetRepository struct {
	kv core.KVStore
}

var _ tracksheet.Repository = (*SheetRepository)(nil)

func NewSheetRepository(kv core.KVStore) *SheetRepository {
	return &SheetRepository{kv: kv}
}

func (repo *SheetRepository) GetSheetByProject(projectID string) (tracksheet.Sheet, error) {
	sheets, err := repo.queryAll()
	if err != nil {
		return tracksheet.Sheet{}, err
	}
	sheet, ok := sheets[projectID]
	if !ok {
		return tracksheet.Sheet{}, tracksheet.ErrNotFound
	}
	return sheet, nil
}

func (repo *SheetRepository) SaveSheet(sheet tracksheet.Sheet) error {
	sheets, err := repo.queryAll()
	if err != nil {
		return err
	}
	sheets[sheet.ProjectID] = sheet
	return encodeKey(repo.kv, keyFiches, sheets)
}

func (repo *SheetRepository) queryAll() (map[string]tracksheet.Sheet, error) {
	sheets := make(map[string]tracksheet.Sheet)
	if _, err := decodeKey(repo.kv, keyFiches, &sheets); err != nil {
		return nil, err
	}
	return sheets, nil
}
