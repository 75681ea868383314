package importer

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkaplan/sendhub/internal/entity"
	"github.com/mkaplan/sendhub/internal/xpt/xpttest"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sendhub.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entity.AllModels()...))
	return db
}

func newTestImporter(t *testing.T) (*Importer, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, zap.NewNop()), db
}

var tsVars = []xpttest.Var{
	{Name: "STUDYID", Length: 12},
	{Name: "DOMAIN", Length: 2},
	{Name: "TSSEQ", Numeric: true},
	{Name: "TSGRPID", Length: 10},
	{Name: "TSPARMCD", Length: 8},
	{Name: "TSPARM", Length: 40},
	{Name: "TSVAL", Length: 80},
}

func tsRow(seq int, code, label, value string) map[string]any {
	return map[string]any{
		"STUDYID": "STUDY001", "DOMAIN": "TS", "TSSEQ": seq,
		"TSPARMCD": code, "TSPARM": label, "TSVAL": value,
	}
}

func writeTrialSummary(t *testing.T, dir string) {
	t.Helper()
	rows := []map[string]any{
		tsRow(1, "STUDYID", "Study Identifier", "STUDY001"),
		tsRow(2, "SSTDTL", "Study Title, Detailed", "Test Study"),
		tsRow(3, "SPECIES", "Species", "RAT"),
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "ts.xpt"), "TS", tsVars, rows))
}

func writeDemographics(t *testing.T, dir string, usubjids []string) {
	t.Helper()
	vars := []xpttest.Var{
		{Name: "STUDYID", Length: 12},
		{Name: "USUBJID", Length: 20},
		{Name: "SUBJID", Length: 10},
		{Name: "SEX", Length: 2},
		{Name: "RFSTDTC", Length: 20},
	}
	rows := make([]map[string]any, 0, len(usubjids))
	for i, id := range usubjids {
		rows = append(rows, map[string]any{
			"STUDYID": "STUDY001",
			"USUBJID": id,
			"SUBJID":  fmt.Sprintf("%03d", i+1),
			"SEX":     "F",
			"RFSTDTC": "2016-07-12",
		})
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "dm.xpt"), "DM", vars, rows))
}

// writeBodyWeights writes one BW row per entry in usubjids, cycling seq so
// that (subject, seq) pairs stay unique.
func writeBodyWeights(t *testing.T, dir string, usubjids []string) {
	t.Helper()
	vars := []xpttest.Var{
		{Name: "STUDYID", Length: 12},
		{Name: "DOMAIN", Length: 2},
		{Name: "USUBJID", Length: 20},
		{Name: "BWSEQ", Numeric: true},
		{Name: "BWTESTCD", Length: 8},
		{Name: "BWTEST", Length: 40},
		{Name: "BWSTRESN", Numeric: true},
		{Name: "BWSTRESU", Length: 8},
		{Name: "BWEXCLFL", Length: 2},
	}
	seqBySubject := map[string]int{}
	rows := make([]map[string]any, 0, len(usubjids))
	for _, id := range usubjids {
		seqBySubject[id]++
		rows = append(rows, map[string]any{
			"STUDYID":  "STUDY001",
			"DOMAIN":   "BW",
			"USUBJID":  id,
			"BWSEQ":    seqBySubject[id],
			"BWTESTCD": "BW",
			"BWTEST":   "Body Weight",
			"BWSTRESN": 240.5,
			"BWSTRESU": "g",
			"BWEXCLFL": "Y",
		})
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "bw.xpt"), "BW", vars, rows))
}

func TestImportStudyScenario(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	subjects := []string{"STUDY001-001", "STUDY001-002", "STUDY001-003"}
	writeTrialSummary(t, dir)
	writeDemographics(t, dir, subjects)

	var bwRefs []string
	for i := 0; i < 10; i++ {
		bwRefs = append(bwRefs, subjects[i%3])
	}
	writeBodyWeights(t, dir, bwRefs)

	result, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "STUDY001", result.StudyCode)
	assert.Equal(t, "Test Study", result.StudyTitle)
	assert.Equal(t, 3, result.SubjectCount)
	assert.Equal(t, map[string]int{"BW": 10}, result.DomainCounts)

	var study entity.Study
	require.NoError(t, db.Where("study_code = ?", "STUDY001").First(&study).Error)
	assert.Equal(t, "RAT", study.Species)
	assert.Equal(t, result.StudyID, study.ID)

	var paramCount int64
	require.NoError(t, db.Model(&entity.TrialSummaryParameter{}).Count(&paramCount).Error)
	assert.EqualValues(t, 3, paramCount)
}

func TestImportStudyIsIdempotent(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	subjects := []string{"STUDY001-001", "STUDY001-002", "STUDY001-003"}
	writeTrialSummary(t, dir)
	writeDemographics(t, dir, subjects)
	// Includes two rows for subjects absent from demographics; those persist
	// unlinked and must converge on re-import like everything else.
	writeBodyWeights(t, dir, []string{
		subjects[0], subjects[0], subjects[1], subjects[1], subjects[2],
		"STUDY001-998", "STUDY001-999",
	})

	first, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)
	second, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, first.StudyID, second.StudyID)
	assert.Equal(t, first.SubjectCount, second.SubjectCount)
	assert.Equal(t, first.DomainCounts, second.DomainCounts)

	var subjectCount, findingCount, orphanCount, paramCount int64
	require.NoError(t, db.Model(&entity.Subject{}).Count(&subjectCount).Error)
	require.NoError(t, db.Model(&entity.Finding{}).Count(&findingCount).Error)
	require.NoError(t, db.Model(&entity.Finding{}).Where("subject_id IS NULL").Count(&orphanCount).Error)
	require.NoError(t, db.Model(&entity.TrialSummaryParameter{}).Count(&paramCount).Error)
	assert.EqualValues(t, 3, subjectCount, "subjects are not duplicated")
	assert.EqualValues(t, 7, findingCount, "findings are not duplicated")
	assert.EqualValues(t, 2, orphanCount, "unlinked findings are not duplicated either")
	assert.EqualValues(t, 3, paramCount, "summary parameters stay first-import-wins")
}

func TestImportStudyAfterDeleteSucceeds(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	subjects := []string{"STUDY001-001", "STUDY001-002"}
	writeTrialSummary(t, dir)
	writeDemographics(t, dir, subjects)
	writeBodyWeights(t, dir, subjects)

	first, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	require.NoError(t, im.DeleteStudy(first.StudyID))

	// Deletion is permanent; nothing may keep the study code occupied.
	var remaining int64
	require.NoError(t, db.Unscoped().Model(&entity.Study{}).Count(&remaining).Error)
	assert.Zero(t, remaining)

	second, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err, "the study code is importable again after deletion")
	assert.Equal(t, "STUDY001", second.StudyCode)
	assert.Equal(t, 2, second.SubjectCount)

	var studyCount, subjectCount, findingCount int64
	require.NoError(t, db.Model(&entity.Study{}).Count(&studyCount).Error)
	require.NoError(t, db.Model(&entity.Subject{}).Count(&subjectCount).Error)
	require.NoError(t, db.Model(&entity.Finding{}).Count(&findingCount).Error)
	assert.EqualValues(t, 1, studyCount)
	assert.EqualValues(t, 2, subjectCount)
	assert.EqualValues(t, 2, findingCount)
}

func TestImportStudyOrphanFindingsPersistUnlinked(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	subjects := []string{"STUDY001-001", "STUDY001-002", "STUDY001-003"}
	writeTrialSummary(t, dir)
	writeDemographics(t, dir, subjects)
	writeBodyWeights(t, dir, []string{
		subjects[0], subjects[1], subjects[2],
		"STUDY001-998", "STUDY001-999",
	})

	result, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	// Counts reflect rows attempted, not rows successfully linked.
	assert.Equal(t, 5, result.DomainCounts["BW"])

	var orphans int64
	require.NoError(t, db.Model(&entity.Finding{}).Where("subject_id IS NULL").Count(&orphans).Error)
	assert.EqualValues(t, 2, orphans)

	var linked int64
	require.NoError(t, db.Model(&entity.Finding{}).Where("subject_id IS NOT NULL").Count(&linked).Error)
	assert.EqualValues(t, 3, linked)
}

func TestImportStudyAbsentDomainsHaveNoCount(t *testing.T) {
	im, _ := newTestImporter(t)
	dir := t.TempDir()

	writeTrialSummary(t, dir)
	writeDemographics(t, dir, []string{"STUDY001-001"})

	result, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	assert.Empty(t, result.DomainCounts, "absent domains do not appear with zero counts")
	assert.Equal(t, 1, result.SubjectCount)
}

func TestImportStudyMissingTrialSummaryIsFatal(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	writeDemographics(t, dir, []string{"STUDY001-001"})

	_, err := im.ImportStudy(dir, uuid.New())
	require.Error(t, err)

	var studies, subjects int64
	require.NoError(t, db.Model(&entity.Study{}).Count(&studies).Error)
	require.NoError(t, db.Model(&entity.Subject{}).Count(&subjects).Error)
	assert.Zero(t, studies, "nothing is persisted before the mandatory file check")
	assert.Zero(t, subjects)
}

func TestImportStudyUnmappedColumnsSurviveToStorage(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	writeTrialSummary(t, dir)
	writeDemographics(t, dir, []string{"STUDY001-001"})
	writeBodyWeights(t, dir, []string{"STUDY001-001"})

	_, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	var finding entity.Finding
	require.NoError(t, db.Where("domain = ?", "BW").First(&finding).Error)
	require.NotNil(t, finding.DomainData)
	assert.Equal(t, "Y", finding.DomainData["BWEXCLFL"], "unmapped columns are retained as extension data")
	assert.Equal(t, "BW", finding.TestCode)
	require.NotNil(t, finding.StandardResultNumeric)
	assert.InDelta(t, 240.5, *finding.StandardResultNumeric, 1e-9)
}

func TestImportStudySkipsUnresolvedSubjectEvents(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	writeTrialSummary(t, dir)
	writeDemographics(t, dir, []string{"STUDY001-001"})

	exVars := []xpttest.Var{
		{Name: "USUBJID", Length: 20},
		{Name: "EXSEQ", Numeric: true},
		{Name: "EXTRT", Length: 40},
		{Name: "EXDOSE", Numeric: true},
	}
	exRows := []map[string]any{
		{"USUBJID": "STUDY001-001", "EXSEQ": 1, "EXTRT": "Vehicle", "EXDOSE": 0},
		{"USUBJID": "STUDY001-999", "EXSEQ": 1, "EXTRT": "Vehicle", "EXDOSE": 0},
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "ex.xpt"), "EX", exVars, exRows))

	_, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	var exposures int64
	require.NoError(t, db.Model(&entity.Exposure{}).Count(&exposures).Error)
	assert.EqualValues(t, 1, exposures, "exposure rows need a resolved subject")
}

func TestImportStudyCommentsCountedAsCO(t *testing.T) {
	im, _ := newTestImporter(t)
	dir := t.TempDir()

	writeTrialSummary(t, dir)
	writeDemographics(t, dir, []string{"STUDY001-001"})

	coVars := []xpttest.Var{
		{Name: "USUBJID", Length: 20},
		{Name: "RDOMAIN", Length: 2},
		{Name: "COSEQ", Numeric: true},
		{Name: "COVAL", Length: 80},
	}
	coRows := []map[string]any{
		{"USUBJID": "STUDY001-001", "RDOMAIN": "BW", "COSEQ": 1, "COVAL": "Scale recalibrated"},
		{"USUBJID": "STUDY001-001", "RDOMAIN": "BW", "COSEQ": 2, "COVAL": ""},
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "co.xpt"), "CO", coVars, coRows))

	result, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, result.DomainCounts["CO"])
}

func TestImportStudyDiscoversSupplementalFiles(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	writeTrialSummary(t, dir)
	writeDemographics(t, dir, []string{"STUDY001-001"})

	suppVars := []xpttest.Var{
		{Name: "USUBJID", Length: 20},
		{Name: "RDOMAIN", Length: 2},
		{Name: "IDVAR", Length: 8},
		{Name: "IDVARVAL", Length: 20},
		{Name: "QNAM", Length: 8},
		{Name: "QLABEL", Length: 40},
		{Name: "QVAL", Length: 80},
	}
	suppRow := func(domain, qnam, qval string) map[string]any {
		return map[string]any{
			"USUBJID": "STUDY001-001", "RDOMAIN": domain,
			"IDVAR": domain + "SEQ", "IDVARVAL": "1",
			"QNAM": qnam, "QLABEL": qnam, "QVAL": qval,
		}
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "suppbw.xpt"), "SUPPBW", suppVars,
		[]map[string]any{suppRow("BW", "BWCOND", "FASTED")}))
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "suppmi.xpt"), "SUPPMI", suppVars,
		[]map[string]any{suppRow("MI", "MIDIST", "FOCAL")}))

	_, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	var qualifiers []entity.SupplementalQualifier
	require.NoError(t, db.Find(&qualifiers).Error)
	require.Len(t, qualifiers, 2)

	domains := []string{qualifiers[0].RelatedDomain, qualifiers[1].RelatedDomain}
	assert.ElementsMatch(t, []string{"BW", "MI"}, domains)
}

func TestImportStudyTrialDesignAndRelatedRecords(t *testing.T) {
	im, db := newTestImporter(t)
	dir := t.TempDir()

	writeTrialSummary(t, dir)
	writeDemographics(t, dir, []string{"STUDY001-001"})

	taVars := []xpttest.Var{
		{Name: "ARMCD", Length: 8},
		{Name: "ARM", Length: 40},
		{Name: "TAETORD", Numeric: true},
		{Name: "ETCD", Length: 8},
		{Name: "EPOCH", Length: 20},
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "ta.xpt"), "TA", taVars, []map[string]any{
		{"ARMCD": "C", "ARM": "Control", "TAETORD": 1, "ETCD": "SCRN", "EPOCH": "SCREENING"},
		{"ARMCD": "HD", "ARM": "High Dose", "TAETORD": 1, "ETCD": "SCRN", "EPOCH": "SCREENING"},
	}))

	txVars := []xpttest.Var{
		{Name: "SETCD", Length: 8},
		{Name: "SET", Length: 40},
		{Name: "TXSEQ", Numeric: true},
		{Name: "TXPARMCD", Length: 8},
		{Name: "TXVAL", Length: 40},
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "tx.xpt"), "TX", txVars, []map[string]any{
		{"SETCD": "1", "SET": "Control Group", "TXSEQ": 1, "TXPARMCD": "TRTDOS", "TXVAL": "0"},
	}))

	relVars := []xpttest.Var{
		{Name: "USUBJID", Length: 20},
		{Name: "RDOMAIN", Length: 2},
		{Name: "IDVAR", Length: 8},
		{Name: "IDVARVAL", Length: 20},
		{Name: "RELTYPE", Length: 8},
		{Name: "RELID", Length: 8},
	}
	require.NoError(t, xpttest.WriteFile(filepath.Join(dir, "relrec.xpt"), "RELREC", relVars, []map[string]any{
		{"USUBJID": "STUDY001-001", "RDOMAIN": "BW", "IDVAR": "BWSEQ", "IDVARVAL": "1", "RELTYPE": "ONE", "RELID": "R1"},
	}))

	_, err := im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)
	_, err = im.ImportStudy(dir, uuid.New())
	require.NoError(t, err)

	var arms, sets, rels int64
	require.NoError(t, db.Model(&entity.TrialArm{}).Count(&arms).Error)
	require.NoError(t, db.Model(&entity.TrialSet{}).Count(&sets).Error)
	require.NoError(t, db.Model(&entity.RelatedRecord{}).Count(&rels).Error)
	assert.EqualValues(t, 2, arms)
	assert.EqualValues(t, 1, sets)
	assert.EqualValues(t, 1, rels)
}
