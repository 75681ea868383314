package importer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mkaplan/sendhub/internal/entity"
)

func (im *Importer) importTrialArms(dataDir string, studyID, userID uuid.UUID) error {
	f, ok := im.readOptional(dataDir, "ta.xpt")
	if !ok {
		return nil
	}

	for _, row := range f.Rows {
		arm := entity.TrialArm{
			ID:        uuid.New(),
			StudyID:   studyID,
			ArmCode:   row.Str("ARMCD"),
			Arm:       row.Str("ARM"),
			Taetord:   row.Int("TAETORD"),
			Etcd:      row.Str("ETCD"),
			Element:   row.Str("ELEMENT"),
			Tabranch:  row.Str("TABRANCH"),
			Epoch:     row.Str("EPOCH"),
			CreatedBy: userID,
		}
		if err := im.createSkipConflict(&arm); err != nil {
			return fmt.Errorf("create trial arm: %w", err)
		}
	}
	return nil
}

func (im *Importer) importTrialSets(dataDir string, studyID, userID uuid.UUID) error {
	f, ok := im.readOptional(dataDir, "tx.xpt")
	if !ok {
		return nil
	}

	for _, row := range f.Rows {
		setDescription := row.Str("SET")
		if setDescription == "" {
			setDescription = row.Str("SETCD")
		}
		set := entity.TrialSet{
			ID:             uuid.New(),
			StudyID:        studyID,
			SetCode:        row.Str("SETCD"),
			SetDescription: setDescription,
			Seq:            row.Int("TXSEQ"),
			ParameterCode:  row.Str("TXPARMCD"),
			Parameter:      row.Str("TXPARM"),
			Value:          row.Str("TXVAL"),
			CreatedBy:      userID,
		}
		if err := im.createSkipConflict(&set); err != nil {
			return fmt.Errorf("create trial set: %w", err)
		}
	}
	return nil
}
