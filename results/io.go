// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/minio/highwayhash"
)

// WriteCSV writes r in the human-readable form of §6.3: a header row of
// "time" followed by every saved ident, then one row per saved step.
func (r *Results) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"time"}, r.Idents...)
	if err := cw.Write(header); err != nil {
		return chk.Err("results: WriteCSV: %v", err)
	}
	row := make([]string, len(header))
	for i := range r.Time {
		row[0] = strconv.FormatFloat(r.Time[i], 'g', -1, 64)
		for j := range r.Idents {
			row[j+1] = strconv.FormatFloat(canonicalizeNaN(r.Data[j][i]), 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return chk.Err("results: WriteCSV: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// binaryHashKey is the fixed 32-byte HighwayHash key for the binary wire
// format's trailing checksum (§6.3). It need not be secret: the checksum
// guards against truncation and accidental corruption, not tampering.
var binaryHashKey = []byte("simlin-sub002-results-ck-0123456")

// binaryMagic tags the start of every binary result file: "SLTR" (§6.3's
// magic[4]).
var binaryMagic = [4]byte{'S', 'L', 'T', 'R'}

// binaryVersion is the current wire-format version (§6.3's version[2]).
const binaryVersion uint16 = 1

// WriteBinary writes r in the record layout of §6.3, with each step's row
// of values led by that step's time:
//
//	magic[4] | version[2] | n_vars[4] | n_steps[4] |
//	  [ident_len[2] + ident_bytes]* | [time + float64 values, row-major step-major]
//
// Everything after the magic is little-endian. NaN is canonicalized to the
// IEEE-754 canonical quiet NaN bit pattern before being written. A trailing
// HighwayHash64 over every byte written after the magic guards against
// truncation; it is not part of §6.3's record layout itself, but
// ReadBinary verifies it.
func (r *Results) WriteBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	hash, err := highwayhash.New64(binaryHashKey)
	if err != nil {
		return chk.Err("results: WriteBinary: %v", err)
	}

	if _, err := bw.Write(binaryMagic[:]); err != nil {
		return chk.Err("results: WriteBinary: %v", err)
	}
	mw := io.MultiWriter(bw, hash)

	if err := binary.Write(mw, binary.LittleEndian, binaryVersion); err != nil {
		return chk.Err("results: WriteBinary: %v", err)
	}
	nVars := uint32(len(r.Idents))
	if err := binary.Write(mw, binary.LittleEndian, nVars); err != nil {
		return chk.Err("results: WriteBinary: %v", err)
	}
	nSteps := uint32(len(r.Time))
	if err := binary.Write(mw, binary.LittleEndian, nSteps); err != nil {
		return chk.Err("results: WriteBinary: %v", err)
	}
	for _, id := range r.Idents {
		b := []byte(id)
		if err := binary.Write(mw, binary.LittleEndian, uint16(len(b))); err != nil {
			return chk.Err("results: WriteBinary: %v", err)
		}
		if _, err := mw.Write(b); err != nil {
			return chk.Err("results: WriteBinary: %v", err)
		}
	}
	for i := range r.Time {
		if err := binary.Write(mw, binary.LittleEndian, r.Time[i]); err != nil {
			return chk.Err("results: WriteBinary: %v", err)
		}
		for j := range r.Idents {
			v := canonicalizeNaN(r.Data[j][i])
			if err := binary.Write(mw, binary.LittleEndian, v); err != nil {
				return chk.Err("results: WriteBinary: %v", err)
			}
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, hash.Sum64()); err != nil {
		return chk.Err("results: WriteBinary: %v", err)
	}
	return bw.Flush()
}

// ReadBinary parses the record WriteBinary produces, verifying the magic,
// the version, and the trailing checksum.
func ReadBinary(r io.Reader) (*Results, error) {
	br := bufio.NewReader(r)
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, chk.Err("results: ReadBinary: %v", err)
	}
	if magic != binaryMagic {
		return nil, chk.Err("results: ReadBinary: bad magic %v", magic)
	}

	hash, err := highwayhash.New64(binaryHashKey)
	if err != nil {
		return nil, chk.Err("results: ReadBinary: %v", err)
	}
	tr := io.TeeReader(br, hash)

	var version uint16
	if err := binary.Read(tr, binary.LittleEndian, &version); err != nil {
		return nil, chk.Err("results: ReadBinary: %v", err)
	}
	if version != binaryVersion {
		return nil, chk.Err("results: ReadBinary: unsupported version %d", version)
	}
	var nVars, nSteps uint32
	if err := binary.Read(tr, binary.LittleEndian, &nVars); err != nil {
		return nil, chk.Err("results: ReadBinary: %v", err)
	}
	if err := binary.Read(tr, binary.LittleEndian, &nSteps); err != nil {
		return nil, chk.Err("results: ReadBinary: %v", err)
	}

	idents := make([]string, nVars)
	for i := range idents {
		var l uint16
		if err := binary.Read(tr, binary.LittleEndian, &l); err != nil {
			return nil, chk.Err("results: ReadBinary: %v", err)
		}
		b := make([]byte, l)
		if _, err := io.ReadFull(tr, b); err != nil {
			return nil, chk.Err("results: ReadBinary: %v", err)
		}
		idents[i] = string(b)
	}

	res := NewResults(idents)
	for i := uint32(0); i < nSteps; i++ {
		var t float64
		if err := binary.Read(tr, binary.LittleEndian, &t); err != nil {
			return nil, chk.Err("results: ReadBinary: %v", err)
		}
		vals := make([]float64, nVars)
		for j := range vals {
			if err := binary.Read(tr, binary.LittleEndian, &vals[j]); err != nil {
				return nil, chk.Err("results: ReadBinary: %v", err)
			}
		}
		res.AppendRow(t, vals)
	}

	var wantSum uint64
	if err := binary.Read(br, binary.LittleEndian, &wantSum); err != nil {
		return nil, chk.Err("results: ReadBinary: %v", err)
	}
	if got := hash.Sum64(); got != wantSum {
		return nil, chk.Err("results: ReadBinary: checksum mismatch (got %x, want %x)", got, wantSum)
	}
	return res, nil
}
