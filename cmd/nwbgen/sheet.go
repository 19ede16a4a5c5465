package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scigolib/nwb"
)

// sessionSheet is the YAML schema for skeleton session files.
type sessionSheet struct {
	SessionDescription string    `yaml:"session_description"`
	Identifier         string    `yaml:"identifier"`
	SessionStartTime   time.Time `yaml:"session_start_time"`
	SessionID          string    `yaml:"session_id"`
	Lab                string    `yaml:"lab"`
	Institution        string    `yaml:"institution"`
	Experimenter       []string  `yaml:"experimenter"`
	Keywords           []string  `yaml:"keywords"`

	Subject *struct {
		SubjectID   string `yaml:"subject_id"`
		Age         string `yaml:"age"`
		Description string `yaml:"description"`
		Species     string `yaml:"species"`
		Sex         string `yaml:"sex"`
	} `yaml:"subject"`

	Devices []struct {
		Name         string `yaml:"name"`
		Description  string `yaml:"description"`
		Manufacturer string `yaml:"manufacturer"`
	} `yaml:"devices"`

	ElectrodeGroups []struct {
		Name          string `yaml:"name"`
		Description   string `yaml:"description"`
		Location      string `yaml:"location"`
		Device        string `yaml:"device"`
		NumElectrodes int    `yaml:"num_electrodes"`
	} `yaml:"electrode_groups"`
}

func loadSheet(path string) (*sessionSheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	sheet := &sessionSheet{}
	if err := yaml.Unmarshal(raw, sheet); err != nil {
		return nil, fmt.Errorf("parse sheet %s: %w", path, err)
	}
	return sheet, nil
}

// buildFromSheet converts a parsed session sheet into a file graph.
func buildFromSheet(sheet *sessionSheet) (*nwb.File, error) {
	var opts []nwb.FileOption
	if sheet.Lab != "" {
		opts = append(opts, nwb.WithLab(sheet.Lab))
	}
	if sheet.Institution != "" {
		opts = append(opts, nwb.WithInstitution(sheet.Institution))
	}
	if sheet.SessionID != "" {
		opts = append(opts, nwb.WithSessionID(sheet.SessionID))
	}
	if len(sheet.Experimenter) > 0 {
		opts = append(opts, nwb.WithExperimenter(sheet.Experimenter...))
	}
	if len(sheet.Keywords) > 0 {
		opts = append(opts, nwb.WithKeywords(sheet.Keywords...))
	}

	f, err := nwb.NewFile(sheet.SessionDescription, sheet.Identifier, sheet.SessionStartTime, opts...)
	if err != nil {
		return nil, err
	}

	if sheet.Subject != nil {
		err := f.SetSubject(&nwb.Subject{
			SubjectID:   sheet.Subject.SubjectID,
			Age:         sheet.Subject.Age,
			Description: sheet.Subject.Description,
			Species:     sheet.Subject.Species,
			Sex:         sheet.Subject.Sex,
		})
		if err != nil {
			return nil, err
		}
	}

	devices := make(map[string]*nwb.Device, len(sheet.Devices))
	for _, d := range sheet.Devices {
		dev, err := f.CreateDevice(d.Name,
			nwb.WithDeviceDescription(d.Description),
			nwb.WithManufacturer(d.Manufacturer))
		if err != nil {
			return nil, err
		}
		devices[d.Name] = dev
	}

	for _, g := range sheet.ElectrodeGroups {
		dev, ok := devices[g.Device]
		if !ok {
			return nil, fmt.Errorf("electrode group %q references unknown device %q", g.Name, g.Device)
		}
		group, err := f.CreateElectrodeGroup(g.Name, g.Description, g.Location, dev)
		if err != nil {
			return nil, err
		}
		for i := 0; i < g.NumElectrodes; i++ {
			if err := f.AddElectrode(nwb.Electrode{Location: g.Location, Group: group}); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

var sheetCmd = &cobra.Command{
	Use:   "from-sheet <session.yaml>",
	Short: "Build a skeleton NWB file from a YAML session sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := loadSheet(args[0])
		if err != nil {
			return err
		}
		f, err := buildFromSheet(sheet)
		if err != nil {
			return err
		}
		if err := nwb.Write(f, outPath); err != nil {
			return err
		}
		logger.Info("wrote session file", "path", outPath, "identifier", f.Identifier())
		return nil
	},
}
