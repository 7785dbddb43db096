package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pmo-lab/projecthub/dao/model"
)

// openTestDB gives each test its own in-memory database that survives for
// every connection in the pool.
func openTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func TestUpsertSingletonReplacesInPlace(t *testing.T) {
	db := openTestDB(t, &model.Charter{})

	first := model.Charter{
		ProjectID: 1,
		Purpose:   "Stand up the new billing platform",
		Status:    model.DocumentDraft,
		CreatedBy: 7,
	}
	firstID, err := upsertSingleton(db, &first, 1)
	require.NoError(t, err)
	require.NotZero(t, firstID)

	second := model.Charter{
		ProjectID:       1,
		Purpose:         "Stand up and migrate to the new billing platform",
		EstimatedBudget: 250000,
		Status:          model.DocumentDraft,
		CreatedBy:       9,
	}
	secondID, err := upsertSingleton(db, &second, 1)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID, "re-applying must keep the primary key")

	var count int64
	require.NoError(t, db.Model(&model.Charter{}).Where("project_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 1, count, "singleton must not duplicate on re-apply")

	var stored model.Charter
	require.NoError(t, db.Where("project_id = ?", 1).First(&stored).Error)
	assert.Equal(t, second.Purpose, stored.Purpose)
	assert.Equal(t, second.EstimatedBudget, stored.EstimatedBudget)
	assert.Equal(t, second.CreatedBy, stored.CreatedBy)
}

func TestUpsertSingletonIsPerProject(t *testing.T) {
	db := openTestDB(t, &model.BusinessCase{})

	for _, projectID := range []uint{1, 2} {
		doc := model.BusinessCase{
			ProjectID:        projectID,
			ProblemStatement: "Manual reporting does not scale",
			ProposedSolution: "Automate the monthly rollup",
			Status:           model.DocumentDraft,
			CreatedBy:        3,
		}
		_, err := upsertSingleton(db, &doc, projectID)
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.BusinessCase{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func useTemplateRequest(t *testing.T, mgr *TemplateMgr, id string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/templates/"+id+"/use", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	mgr.UseTemplate(c)
	return w
}

func TestUseTemplateIncrementsUsageCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, &model.Template{})
	mgr := &TemplateMgr{name: "templates", db: db}

	template := model.Template{
		Name:      "Agile Charter",
		Type:      model.TemplateProjectCharter,
		Data:      datatypes.JSON(`{"purpose":"x"}`),
		CreatedBy: 1,
	}
	require.NoError(t, db.Create(&template).Error)

	for want := int64(1); want <= 2; want++ {
		w := useTemplateRequest(t, mgr, fmt.Sprint(template.ID))
		assert.Equal(t, http.StatusOK, w.Code)

		var stored model.Template
		require.NoError(t, db.First(&stored, template.ID).Error)
		assert.Equal(t, want, stored.UsageCount)
	}
}

func TestUseTemplateUnknownID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, &model.Template{})
	mgr := &TemplateMgr{name: "templates", db: db}

	w := useTemplateRequest(t, mgr, "999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
