package main

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/scigolib/nwb"
)

// buildDemoSession populates a complete session: subject, raw acquisition,
// behavioral position, trials, an electrode table with LFP, and spike-time
// units. Data is synthetic but shaped like a real recording.
func buildDemoSession() (*nwb.File, error) {
	start := time.Date(2026, 4, 3, 11, 0, 0, 0, time.UTC)
	f, err := nwb.NewFile(
		"demonstration session with synthetic data",
		"NWBGEN-DEMO-001",
		start,
		nwb.WithLab("Bag End Laboratory"),
		nwb.WithInstitution("University of My Institution"),
		nwb.WithExperimenter("Baggins, Bilbo"),
		nwb.WithSessionID("LONELYMTN-007"),
		nwb.WithKeywords("behavior", "ecephys", "demo"),
	)
	if err != nil {
		return nil, err
	}

	if err := f.SetSubject(&nwb.Subject{
		SubjectID:   "001",
		Age:         "P90D",
		Description: "mouse 5",
		Species:     "Mus musculus",
		Sex:         "M",
	}); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(42, 1))

	// Raw acquisition: a regularly sampled test series.
	raw := make([]float64, 1000)
	for i := range raw {
		raw[i] = float64(i) * 0.1
	}
	rawSeries, err := nwb.NewTimeSeries("test_timeseries", raw, "SIunit",
		nwb.WithRate(0.0, 1.0),
		nwb.WithSeriesDescription("linearly increasing test signal"))
	if err != nil {
		return nil, err
	}
	if err := f.AddAcquisition(rawSeries); err != nil {
		return nil, err
	}

	// Behavioral position: a slow circle on the track.
	const nPos = 600
	pos := make([][]float64, nPos)
	timestamps := make([]float64, nPos)
	for i := range pos {
		t := float64(i) / 30.0
		pos[i] = []float64{math.Cos(t / 4), math.Sin(t / 4)}
		timestamps[i] = t
	}
	spatial, err := nwb.NewSpatialSeries("SpatialSeries", pos,
		"(0,0) is center of the arena",
		nwb.WithTimestamps(timestamps),
		nwb.WithSeriesDescription("position on the circular track"))
	if err != nil {
		return nil, err
	}
	position := nwb.NewPosition()
	if err := position.AddSpatialSeries(spatial); err != nil {
		return nil, err
	}
	behavior, err := f.CreateProcessingModule("behavior", "processed behavioral data")
	if err != nil {
		return nil, err
	}
	if err := behavior.Add(position); err != nil {
		return nil, err
	}

	// Trials with a per-trial correctness flag.
	if err := f.AddTrialColumn("correct", "whether the subject responded correctly"); err != nil {
		return nil, err
	}
	for i := 0; i < 10; i++ {
		t0 := float64(i) * 2.0
		correct := 0.0
		if rng.Float64() > 0.3 {
			correct = 1.0
		}
		if err := f.AddTrial(t0, t0+1.5, correct); err != nil {
			return nil, err
		}
	}

	// Electrode table: one device, four shanks, four electrodes each.
	dev, err := f.CreateDevice("array",
		nwb.WithDeviceDescription("the best array"),
		nwb.WithManufacturer("Probe Interface Unlimited"))
	if err != nil {
		return nil, err
	}
	var allElectrodes []int
	for shank := 0; shank < 4; shank++ {
		group, err := f.CreateElectrodeGroup(
			shankName(shank), "electrode group", "brain area", dev)
		if err != nil {
			return nil, err
		}
		for ch := 0; ch < 4; ch++ {
			if err := f.AddElectrode(nwb.Electrode{
				Location: "brain area",
				Group:    group,
				Imp:      float64(1e6 + rng.Float64()*1e5),
			}); err != nil {
				return nil, err
			}
			allElectrodes = append(allElectrodes, shank*4+ch)
		}
	}
	region, err := f.CreateElectrodeTableRegion(allElectrodes, "all electrodes")
	if err != nil {
		return nil, err
	}

	// LFP: band-limited noise on every channel.
	const nLFP = 1000
	lfpData := make([][]float64, nLFP)
	for i := range lfpData {
		row := make([]float64, len(allElectrodes))
		t := float64(i) / 250.0
		for ch := range row {
			row[ch] = 50e-6*math.Sin(2*math.Pi*8*t) + 10e-6*rng.NormFloat64()
		}
		lfpData[i] = row
	}
	lfpSeries, err := nwb.NewElectricalSeries("ElectricalSeries", lfpData, region,
		nwb.WithRate(0.0, 250.0),
		nwb.WithSeriesDescription("local field potential, 250 Hz"))
	if err != nil {
		return nil, err
	}
	lfp := nwb.NewLFP()
	if err := lfp.AddElectricalSeries(lfpSeries); err != nil {
		return nil, err
	}
	ecephys, err := f.CreateProcessingModule("ecephys", "extracellular electrophysiology")
	if err != nil {
		return nil, err
	}
	if err := ecephys.Add(lfp); err != nil {
		return nil, err
	}

	// Spike-sorted units with Poisson-ish spike trains.
	if err := f.AddUnitColumn("quality", "sorting quality score"); err != nil {
		return nil, err
	}
	for unit := 0; unit < 3; unit++ {
		var spikes []float64
		t := 0.0
		for t < 4.0 {
			t += rng.ExpFloat64() / (5.0 + float64(unit))
			spikes = append(spikes, t)
		}
		if err := f.AddUnit(spikes, 0.8+0.05*float64(unit)); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func shankName(i int) string {
	return "shank" + string(rune('0'+i))
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate a fully populated demonstration session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildDemoSession()
		if err != nil {
			return err
		}
		if err := nwb.Write(f, outPath); err != nil {
			return err
		}
		logger.Info("wrote demo session", "path", outPath,
			"trials", f.NumTrials(), "electrodes", f.NumElectrodes(), "units", f.NumUnits())
		return nil
	},
}
