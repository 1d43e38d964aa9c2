package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSourceLoadAll(t *testing.T) {
	content := "eventid,iyear,imonth,iday,gname,city,region_txt,country_txt,attacktype1_txt,targtype1_txt,weaptype1_txt,nkill,nwound\n" +
		"197000000001,1970,7,2,MANO-D,Santo Domingo,Central America & Caribbean,Dominican Republic,Assassination,Private Citizens & Property,Unknown,1.0,0\n" +
		"197000000002,1970,0,0,Unknown,Mexico city,North America,Mexico,Hostage Taking (Kidnapping),Government (Diplomatic),Unknown,0,\n" +
		"not-a-number,1970,1,1,X,,,,,,,,\n"

	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := NewCSVSource(path)
	incidents, err := src.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 2) // malformed event ID row dropped

	first := incidents[0]
	assert.Equal(t, int64(197000000001), first.EventID)
	assert.Equal(t, "MANO-D", first.GroupName)
	assert.Equal(t, 1970, first.Year)
	assert.Equal(t, 7, first.Month)
	assert.Equal(t, 2, first.Day)
	assert.Equal(t, "Dominican Republic", first.Country)
	assert.Equal(t, 1, first.Casualties) // "1.0" parsed as float

	second := incidents[1]
	assert.Equal(t, 0, second.Month)
	assert.Equal(t, 0, second.Wounded)
	assert.Equal(t, "Unknown", second.GroupName)
}

func TestCSVSourceMissingRequiredColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte("gname,city\nX,Y\n"), 0o644))

	_, err := NewCSVSource(path).LoadAll(context.Background())
	assert.Error(t, err)
}
