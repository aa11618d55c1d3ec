package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/gnames/gnaoi/internal/iofs"
	"github.com/gnames/gnaoi/pkg/aoi"
	"github.com/gnames/gnaoi/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ensureTestConfig(home string) error {
	if err := iofs.EnsureDirs(home); err != nil {
		return err
	}
	return iofs.EnsureConfigFile(home)
}

func TestFlagOptions(t *testing.T) {
	cmd := getRootCmd()
	require.NoError(t, cmd.ParseFlags(
		[]string{"--jobs", "3", "--catalog", "memory"},
	))

	c := config.New()
	c.Update(flagOptions(cmd))
	assert.Equal(t, 3, c.JobsNumber)
	assert.Equal(t, "memory", c.Catalog.Kind)
	assert.Equal(t, "info", c.Log.Level, "unchanged flag is ignored")
}

func TestParseDate(t *testing.T) {
	assert := assert.New(t)

	d, err := parseDate("2025-03-01", false)
	assert.NoError(err)
	assert.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2025-03-01", true)
	assert.NoError(err)
	assert.Equal(time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC), d)

	d, err = parseDate("2025-03-01T10:00:00+02:00", true)
	assert.NoError(err)
	assert.Equal(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), d)

	_, err = parseDate("March 1", false)
	assert.Error(err)
}

func TestSelectRequest(t *testing.T) {
	assert := assert.New(t)

	req, err := selectRequest("2025-01-01", "2025-03-31", 20, 4)
	assert.NoError(err)
	assert.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), req.Start)
	assert.Equal(20.0, req.MaxCloudCover)
	assert.Equal(4, req.MaxTiles)

	req, err = selectRequest("", "2025-03-31", 100, 0)
	assert.NoError(err)
	assert.Equal(req.End.AddDate(-1, 0, 0), req.Start)

	_, err = selectRequest("yesterday", "", 100, 0)
	assert.Error(err)
}

func TestMergeSets(t *testing.T) {
	assert := assert.New(t)
	provinces := &aoi.BoundarySet{
		ID: "1", Name: "zw", Source: "provinces.zip", Level: aoi.Province,
		Columns:    []string{"NAME_0", "NAME_1"},
		Boundaries: []aoi.Boundary{{Level: aoi.Province, Name: "Harare"}},
	}
	districts := &aoi.BoundarySet{
		ID: "2", Name: "districts", Source: "districts.zip", Level: aoi.District,
		Columns:    []string{"NAME_1", "NAME_2"},
		Boundaries: []aoi.Boundary{{Level: aoi.District, Name: "Harare Urban"}},
	}

	res := mergeSets(nil, provinces)
	res = mergeSets(res, districts)
	assert.Equal("1", res.ID)
	assert.Equal("zw", res.Name)
	assert.Equal("provinces.zip,districts.zip", res.Source)
	assert.Equal(aoi.District, res.Level)
	assert.Equal([]string{"NAME_0", "NAME_1", "NAME_2"}, res.Columns)
	assert.Len(res.Boundaries, 2)
}

func TestPrintJSON(t *testing.T) {
	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	out := boundariesOutput{ID: "1", Name: "zw", Level: aoi.Ward}
	require.NoError(t, printJSON(cmd, out, false))
	assert.Contains(t, buf.String(), `"level":"ward"`)
	assert.Contains(t, buf.String(), `"name":"zw"`)
}
