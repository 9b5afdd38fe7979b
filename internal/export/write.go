package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create sweep CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create sweep CBOR decoder mode: %v", err))
	}
}

var csvHeader = []string{
	"bias_v", "status", "surface_potential_v", "charge_c_cm2", "gate_charge_c_cm2",
	"field_v_cm", "capacitance_f_cm2", "iterations", "error",
}

// Write encodes doc to w
func Write(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, doc)
	case FormatCBOR:
		return encMode.NewEncoder(w).Encode(doc)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteFile writes doc to path in the format implied by its extension
func WriteFile(path string, doc Document) (err error) {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if err := Write(w, format, doc); err != nil {
		return err
	}
	return w.Flush()
}

// ReadCBOR decodes a document written with FormatCBOR
func ReadCBOR(r io.Reader) (Document, error) {
	var doc Document
	if err := decMode.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ReadMsgpack decodes a document written with FormatMsgpack
func ReadMsgpack(r io.Reader) (Document, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func writeCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range doc.Points {
		record := []string{
			g(r.Bias), r.Status, g(r.SurfacePotential), g(r.Charge), g(r.GateCharge),
			g(r.Field), g(r.Capacitance), strconv.Itoa(r.Iterations), r.Error,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
