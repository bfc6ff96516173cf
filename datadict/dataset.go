package datadict

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/priyank1574q/agent-vinod/toolerr"
)

// Dataset names a tabular file.
type Dataset struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// DefaultDatasetNames are the datasets the dictionary covers by default.
var DefaultDatasetNames = []string{"order_data", "cart_adds", "clicks", "impression", "catalog"}

// DefaultDatasets resolves the default dataset names under dir.
func DefaultDatasets(dir string) []Dataset {
	out := make([]Dataset, 0, len(DefaultDatasetNames))
	for _, name := range DefaultDatasetNames {
		file := name + ".csv"
		if name == "impression" {
			file = "impression1M_pdf.csv"
		}
		out = append(out, Dataset{Name: name, Path: filepath.Join(dir, file)})
	}
	return out
}

// frame is a header plus rows of raw cell text.
type frame struct {
	header []string
	rows   [][]string
}

// column returns the cells of column i, padding short rows with "".
func (f *frame) column(i int) []string {
	out := make([]string, len(f.rows))
	for r, row := range f.rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// readDataset loads a .csv or .xlsx file. A missing file is FileNotFound;
// anything else that prevents reading it is IO.
func readDataset(ds Dataset) (*frame, error) {
	if _, err := os.Stat(ds.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, toolerr.Wrap(toolerr.KindFileNotFound, err,
				"Data file not found at '%s'. Cannot generate data dictionary.", ds.Path)
		}
		return nil, toolerr.Wrap(toolerr.KindIO, err, "Error reading %s: %v", ds.Path, err)
	}

	var (
		f   *frame
		err error
	)
	switch strings.ToLower(filepath.Ext(ds.Path)) {
	case ".xlsx", ".xlsm":
		f, err = readXLSX(ds.Path)
	default:
		f, err = readCSV(ds.Path)
	}
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindIO, err, "Error reading %s: %v", ds.Path, err)
	}
	return f, nil
}

func readCSV(path string) (*frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("no columns to parse from file")
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	f := &frame{header: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		f.rows = append(f.rows, rec)
	}
	return f, nil
}

func readXLSX(path string) (*frame, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	rows, err := x.GetRows(x.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no columns to parse from sheet %q", x.GetSheetName(0))
	}
	return &frame{header: rows[0], rows: rows[1:]}, nil
}
