package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appcatalog/internal/dataset"
	"appcatalog/internal/domain"
)

const playHeader = "App,Category,Rating,Reviews,Size,Installs,Type,Price,Content Rating,Genres,Last Updated,Current Ver,Android Ver\n"

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadPlayStore_Cleans(t *testing.T) {
	body := playHeader +
		`Photo Editor,ART_AND_DESIGN,4.1,159,19M,"10,000+",Free,0,Everyone,Art & Design,"January 7, 2018",1.0.0,4.0.3 and up` + "\n" +
		`Photo Editor,ART_AND_DESIGN,4.1,159,19M,"10,000+",Free,0,Everyone,Art & Design,"January 7, 2018",1.0.0,4.0.3 and up` + "\n" +
		`Pro Tool,TOOLS,NaN,0,201k,"1,000,000+",Paid,$4.99,Teen,Tools,"June 1, 2018",2.1,Varies with device` + "\n" +
		`Broken Row,1.9,19,3.0M,"1,000+",Free,0,Everyone,,"February 11, 2018",1.0.19,4.0 and up,` + "\n" +
		`Any Size,TOOLS,3.9,12,Varies with device,50+,Free,0,Everyone,Tools,"May 1, 2018",1,` + "\n"
	p := writeFile(t, "apps.csv", body)

	apps, st, err := LoadPlayStore(p)
	require.NoError(t, err)

	assert.Equal(t, 5, st.Read)
	assert.Equal(t, 1, st.DroppedSentinel)
	assert.Equal(t, 1, st.DroppedDuplicates)
	require.Len(t, apps, 3)

	for _, a := range apps {
		assert.NotEqual(t, "Broken Row", a.Name, "sentinel row must be dropped")
		assert.Equal(t, domain.SourcePlayStore, a.Source)
	}

	photo := apps[0]
	assert.Equal(t, "Photo Editor", photo.Name)
	assert.Equal(t, int64(10000), *photo.Installs)
	assert.Equal(t, int64(159), *photo.ReviewCount)
	assert.Equal(t, 0.0, *photo.Price)
	assert.InDelta(t, 19*1024*1024, *photo.SizeBytes, 1e-6)
	assert.Equal(t, "4.0.3 and up", *photo.RequiredAndroidVersion)
	assert.Equal(t, "January 7, 2018", *photo.LastUpdatedDate)
	assert.Equal(t, "Everyone", *photo.ContentRating)

	pro := apps[1]
	assert.Nil(t, pro.Rating, "NaN rating is null")
	assert.Equal(t, int64(1000000), *pro.Installs)
	assert.InDelta(t, 4.99, *pro.Price, 1e-9)
	assert.InDelta(t, 201*1024, *pro.SizeBytes, 1e-6)

	assert.Nil(t, apps[2].SizeBytes)
	assert.Nil(t, apps[2].RequiredAndroidVersion)
}

func TestLoadPlayStore_MissingFileIsFatal(t *testing.T) {
	_, _, err := LoadPlayStore(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestCleanPlayStore_MissingColumn(t *testing.T) {
	tb, err := dataset.Read(strings.NewReader("App,Category\nx,y\n"))
	require.NoError(t, err)
	_, _, err = CleanPlayStore(tb)
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestCleanPlayStore_MalformedInstalls(t *testing.T) {
	tb, err := dataset.Read(strings.NewReader(playHeader +
		"X,TOOLS,4,1,1M,lots,Free,0,Everyone,Tools,\"May 1, 2018\",1,4.0 and up\n"))
	require.NoError(t, err)
	_, _, err = CleanPlayStore(tb)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCleanPlayStore_NegativePriceRejected(t *testing.T) {
	tb, err := dataset.Read(strings.NewReader(playHeader +
		"X,TOOLS,4,1,1M,10+,Free,-1,Everyone,Tools,\"May 1, 2018\",1,4.0 and up\n"))
	require.NoError(t, err)
	_, _, err = CleanPlayStore(tb)
	assert.ErrorIs(t, err, ErrMalformed)
}
