package usecase_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"portfolio-backend/internal/usecase"
)

func TestExportUsecase_Workbook(t *testing.T) {
	cat, _ := openCatalog(t)
	uc := usecase.NewExportUsecase(cat)

	data, name, err := uc.Workbook(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "portfolio_content_"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Profile", "Projects", "Experiences", "Testimonials",
		"Certifications", "Services", "Gallery", "Resources",
	}, f.GetSheetList())

	header, err := f.GetCellValue("Projects", "B1")
	require.NoError(t, err)
	assert.Equal(t, "TITLE", header)

	title, err := f.GetCellValue("Projects", "B2")
	require.NoError(t, err)
	assert.Equal(t, cat.Projects.List()[0].Title, title)

	stack, err := f.GetCellValue("Projects", "E2")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(cat.Projects.List()[0].TechStack, ", "), stack)

	field, err := f.GetCellValue("Profile", "A2")
	require.NoError(t, err)
	assert.Equal(t, "name", field)
}

func TestExportUsecase_Snapshot(t *testing.T) {
	cat, _ := openCatalog(t)
	snap := usecase.NewExportUsecase(cat).Snapshot(context.Background())
	assert.Equal(t, cat.Profile.Get(), snap.Profile)
	assert.Len(t, snap.Projects, cat.Projects.Len())
}
