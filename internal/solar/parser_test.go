package solar

import (
	"testing"
	"time"

	"ham-kiosk/dashboard/internal/models"
)

const feedSample = `<?xml version="1.0"?>
<solar>
  <solardata>
    <source url="http://www.hamqsl.com/solar.html">N0NBH</source>
    <updated> 17 Apr 2023 0430 GMT </updated>
    <solarflux>142</solarflux>
    <aindex>8</aindex>
    <kindex>2</kindex>
    <kindexnt>3</kindexnt>
    <xray>B8.4</xray>
    <sunspots>89</sunspots>
    <heliumline>142.2</heliumline>
    <protonflux>128</protonflux>
    <electonflux>1300</electonflux>
    <aurora>1</aurora>
    <normalization>1.99</normalization>
    <latdegree>67.5</latdegree>
    <solarwind>352.3</solarwind>
    <magneticfield>2.8</magneticfield>
    <geomagfield>QUIET</geomagfield>
    <signalnoise>S1-S2</signalnoise>
    <fof2>6.5</fof2>
    <muffactor>3.2</muffactor>
    <muf>21.1</muf>
    <calculatedconditions>
      <band name="80m-40m" time="day">Good</band>
      <band name="30m-20m" time="day">Good</band>
      <band name="17m-15m" time="day">Fair</band>
      <band name="80m-40m" time="night">Good</band>
      <band name="30m-20m" time="night">Fair</band>
    </calculatedconditions>
    <calculatedvhfconditions>
      <phenomenon name="vhf-aurora" location="northern_hemi">Band Closed</phenomenon>
      <phenomenon name="E-Skip" location="europe">Band Closed</phenomenon>
      <phenomenon name="E-Skip" location="north_america">50MHz ES</phenomenon>
    </calculatedvhfconditions>
  </solardata>
</solar>`

func TestParse_FullDocument(t *testing.T) {
	sc, err := Parse(feedSample)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if sc.Source != "N0NBH" {
		t.Errorf("expected source N0NBH, got %q", sc.Source)
	}
	if sc.SolarFlux != "142" {
		t.Errorf("expected solar flux 142, got %q", sc.SolarFlux)
	}
	if sc.Updated != "17 Apr 2023 0430 GMT" {
		t.Errorf("updated not trimmed: %q", sc.Updated)
	}
	if sc.ElectronFlux != "1300" {
		t.Errorf("expected electron flux from misspelled element, got %q", sc.ElectronFlux)
	}
	if sc.MUF != "21.1" {
		t.Errorf("expected MUF 21.1, got %q", sc.MUF)
	}

	if got := sc.BandConditions["day"]["17m-15m"]; got != "Fair" {
		t.Errorf("expected day 17m-15m Fair, got %q", got)
	}
	if got := sc.BandConditions["night"]["30m-20m"]; got != "Fair" {
		t.Errorf("expected night 30m-20m Fair, got %q", got)
	}
	if got := sc.VHFConditions["E-Skip"]["north_america"]; got != "50MHz ES" {
		t.Errorf("expected E-Skip north_america 50MHz ES, got %q", got)
	}
}

func TestParse_MalformedXML(t *testing.T) {
	if _, err := Parse("<solar><solardata></solar>"); err == nil {
		t.Fatal("expected error for mismatched tags")
	}
}

func TestParse_EmptyButWellFormed(t *testing.T) {
	sc, err := Parse("<weather></weather>")
	if err != nil {
		t.Fatalf("well-formed unrecognizable document must not error: %v", err)
	}
	if sc.SolarFlux != "" || sc.KIndex != "" {
		t.Errorf("expected empty scalars, got flux=%q k=%q", sc.SolarFlux, sc.KIndex)
	}
	if len(sc.BandConditions) != 0 {
		t.Errorf("expected no band conditions, got %v", sc.BandConditions)
	}
}

func TestParse_DuplicateBandLastWins(t *testing.T) {
	doc := `<solar><solardata><calculatedconditions>
      <band name="80m-40m" time="day">Poor</band>
      <band name="80m-40m" time="day">Good</band>
    </calculatedconditions></solardata></solar>`

	sc, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sc.BandConditions["day"]["80m-40m"]; got != "Good" {
		t.Errorf("expected last entry to win, got %q", got)
	}
	if len(sc.BandSeen["day"]) != 1 {
		t.Errorf("duplicate band recorded twice in seen order: %v", sc.BandSeen["day"])
	}
}

func TestOverallCondition_ModeOfDayBands(t *testing.T) {
	doc := `<solar><solardata><calculatedconditions>
      <band name="80m" time="day">Good</band>
      <band name="40m" time="day">Good</band>
      <band name="20m" time="day">Fair</band>
    </calculatedconditions></solardata></solar>`

	sc, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)
	if got := sc.OverallCondition(noon); got != "Good" {
		t.Errorf("expected overall Good at midday, got %q", got)
	}

	midnight := time.Date(2024, 1, 15, 2, 0, 0, 0, time.Local)
	if got := sc.OverallCondition(midnight); got != "Unknown" {
		t.Errorf("expected Unknown at night with no night data, got %q", got)
	}
}

func TestOverallCondition_TieBrokenByFirstSeen(t *testing.T) {
	doc := `<solar><solardata><calculatedconditions>
      <band name="80m" time="day">Fair</band>
      <band name="40m" time="day">Good</band>
      <band name="20m" time="day">Good</band>
      <band name="15m" time="day">Fair</band>
    </calculatedconditions></solardata></solar>`

	sc, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noon := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)
	if got := sc.OverallCondition(noon); got != "Fair" {
		t.Errorf("expected first-seen label Fair to win the tie, got %q", got)
	}
}

func TestTimeOfDayBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{5, "night"},
		{6, "day"},
		{17, "day"},
		{18, "night"},
	}
	for _, tc := range cases {
		at := time.Date(2024, 1, 15, tc.hour, 0, 0, 0, time.Local)
		if got := models.TimeOfDay(at); got != tc.want {
			t.Errorf("hour %d: expected %s, got %s", tc.hour, tc.want, got)
		}
	}
}

func TestUpdatedLabel(t *testing.T) {
	sc := models.SolarConditions{Updated: "17 Apr 2023 0430 GMT"}
	if got := sc.UpdatedLabel(); got != "17 Apr 2023 04:30 GMT" {
		t.Errorf("expected formatted stamp, got %q", got)
	}

	sc = models.SolarConditions{Updated: "whenever"}
	if got := sc.UpdatedLabel(); got != "whenever" {
		t.Errorf("unparseable stamp must pass through, got %q", got)
	}
}
