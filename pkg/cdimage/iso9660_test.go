package cdimage_test

import (
	"errors"
	"testing"

	"github.com/hansbonini/vcdtools/pkg/cdimage"
	"github.com/hansbonini/vcdtools/pkg/common"
)

func TestValidateISO9660(t *testing.T) {
	img := writeTestImage(t, 0)

	if err := img.ValidateISO9660(); err != nil {
		t.Errorf("ValidateISO9660() failed: %v", err)
	}
}

func TestReadISODescriptor(t *testing.T) {
	img := writeTestImage(t, 0)

	descriptor, err := img.ReadISODescriptor()
	if err != nil {
		t.Fatalf("ReadISODescriptor() failed: %v", err)
	}

	testCases := []struct {
		field    string
		got      string
		expected string
	}{
		{"VolumeID", common.TrimIdentifier(descriptor.VolumeID[:]), "TESTVOL"},
		{"VolumeSetIdentifier", common.TrimIdentifier(descriptor.VolumeSetIdentifier[:]), "TESTSET"},
		{"PublisherIdentifier", common.TrimIdentifier(descriptor.PublisherIdentifier[:]), "PUBLISHER"},
		{"DataPreparerIdentifier", common.TrimIdentifier(descriptor.DataPreparerIdentifier[:]), "PREPARER"},
	}
	for _, tc := range testCases {
		if tc.got != tc.expected {
			t.Errorf("%s = %q, want %q", tc.field, tc.got, tc.expected)
		}
	}
	if descriptor.VolumeSpaceSizeLSB != 64 {
		t.Errorf("VolumeSpaceSizeLSB = %d, want 64", descriptor.VolumeSpaceSizeLSB)
	}
}

func TestReadPathTable(t *testing.T) {
	img := writeTestImage(t, 0)
	descriptor, err := img.ReadISODescriptor()
	if err != nil {
		t.Fatalf("ReadISODescriptor() failed: %v", err)
	}

	table, err := img.ReadPathTable(descriptor.PathTable1Offs, descriptor.PathTableSizeLSB)
	if err != nil {
		t.Fatalf("ReadPathTable() failed: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("ReadPathTable() returned %d entries, want 2", len(table))
	}
	if got := cdimage.BuildDirectoryPath(0, table); got != "/" {
		t.Errorf("BuildDirectoryPath(root) = %q, want \"/\"", got)
	}
	if got := cdimage.BuildDirectoryPath(1, table); got != "/VCD" {
		t.Errorf("BuildDirectoryPath(1) = %q, want \"/VCD\"", got)
	}
}

func TestFindFile(t *testing.T) {
	img := writeTestImage(t, 0)

	testCases := []struct {
		path string
		lsn  uint32
		size uint32
	}{
		{"/VCD/INFO.VCD", 40, 12},
		{"/vcd/info.vcd", 40, 12},
		{"VCD/INFO.VCD", 40, 12},
		{"/README.TXT", 41, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			entry, err := img.FindFile(tc.path)
			if err != nil {
				t.Fatalf("FindFile() failed: %v", err)
			}
			if entry.LSN != tc.lsn || entry.Size != tc.size {
				t.Errorf("FindFile() = LSN %d size %d, want LSN %d size %d", entry.LSN, entry.Size, tc.lsn, tc.size)
			}
		})
	}
}

func TestFindFile_Missing(t *testing.T) {
	img := writeTestImage(t, 0)

	for _, path := range []string{"/SVCD/INFO.SVD", "/VCD/ENTRIES.VCD"} {
		if _, err := img.FindFile(path); !errors.Is(err, cdimage.ErrFileNotFound) {
			t.Errorf("FindFile(%q) error = %v, want ErrFileNotFound", path, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	img := writeTestImage(t, 0)

	entry, err := img.FindFile("/VCD/INFO.VCD")
	if err != nil {
		t.Fatalf("FindFile() failed: %v", err)
	}
	data, err := img.ReadFile(entry)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "INFO PAYLOAD" {
		t.Errorf("ReadFile() = %q, want %q", data, "INFO PAYLOAD")
	}
}
