package oem719

import (
	"strconv"
	"strings"
)

// MessageType names an output channel. The five decodable types each have
// one, plus RAW for the unfiltered copy of every consumed line.
type MessageType string

const (
	TypeBESTXYZ   MessageType = "BESTXYZ"
	TypeTIME      MessageType = "TIME"
	TypePSRDOP    MessageType = "PSRDOP"
	TypeHWMONITOR MessageType = "HWMONITOR"
	TypeGPGSV     MessageType = "GPGSV"
	TypeRAW       MessageType = "RAW"
)

// Channels lists every output channel in a stable order.
var Channels = []MessageType{
	TypeBESTXYZ, TypeTIME, TypePSRDOP, TypeHWMONITOR, TypeGPGSV, TypeRAW,
}

// Message markers in classification priority order. First match wins; the
// markers are mutually exclusive in real logs.
const (
	MarkerBESTXYZ   = "#BESTXYZA"
	MarkerTIME      = "#TIMEA"
	MarkerPSRDOP    = "#PSRDOPA"
	MarkerHWMONITOR = "#HWMONITORA"
	MarkerGPGSV     = "$GPGSV"
)

type classifier struct {
	marker string
	typ    MessageType
}

var classifiers = []classifier{
	{MarkerBESTXYZ, TypeBESTXYZ},
	{MarkerTIME, TypeTIME},
	{MarkerPSRDOP, TypePSRDOP},
	{MarkerHWMONITOR, TypeHWMONITOR},
	{MarkerGPGSV, TypeGPGSV},
}

// Classify returns the message type of the first marker found in line.
func Classify(line string) (MessageType, bool) {
	for _, c := range classifiers {
		if strings.Contains(line, c.marker) {
			return c.typ, true
		}
	}
	return "", false
}

// Decode runs the single-line decoder for typ. It returns nil when the line
// does not have the expected shape; that is classification feedback, not an
// error. GPGSV groups go through DecodeGPGSV instead.
func Decode(typ MessageType, timestamp, line string) []string {
	switch typ {
	case TypeBESTXYZ:
		return decodeBESTXYZ(timestamp, line)
	case TypeTIME:
		return decodeTIME(timestamp, line)
	case TypePSRDOP:
		return decodePSRDOP(timestamp, line)
	case TypeHWMONITOR:
		return decodeHWMONITOR(timestamp, line)
	default:
		return nil
	}
}

// splitAbbrev splits an abbreviated-ASCII log of shape
// "<marker>,<header>;<data>*<crc>" into trimmed header and data fields.
// The data part runs to the last '*' so embedded asterisks never truncate it.
func splitAbbrev(line, marker string) (header, data []string, ok bool) {
	rest, found := strings.CutPrefix(line, marker+",")
	if !found {
		return nil, nil, false
	}
	semi := strings.IndexByte(rest, ';')
	if semi <= 0 {
		return nil, nil, false
	}
	star := strings.LastIndexByte(rest, '*')
	if star <= semi+1 {
		return nil, nil, false
	}
	return splitTrim(rest[:semi]), splitTrim(rest[semi+1 : star]), true
}

func splitTrim(s string) []string {
	fields := strings.Split(s, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// decodeBESTXYZ emits [timestamp, marker] followed by every header and data
// field. Doubled-quote artifacts in the data (empty-string fields logged as
// "") are collapsed to empty.
func decodeBESTXYZ(timestamp, line string) []string {
	header, data, ok := splitAbbrev(line, MarkerBESTXYZ)
	if !ok {
		return nil
	}
	row := make([]string, 0, 2+len(header)+len(data))
	row = append(row, timestamp, MarkerBESTXYZ)
	row = append(row, header...)
	for _, f := range data {
		row = append(row, strings.ReplaceAll(f, `""`, ""))
	}
	return row
}

// Positions of the receiver clock offset and offset standard deviation in
// the assembled TIMEA row.
const (
	timeOffsetIndex    = 12
	timeOffsetStdIndex = 13
)

// decodeTIME emits [timestamp, marker, header..., data...]. The clock offset
// fields are reformatted into 5-digit-mantissa scientific notation when they
// parse as numbers; anything else passes through untouched.
func decodeTIME(timestamp, line string) []string {
	header, data, ok := splitAbbrev(line, MarkerTIME)
	if !ok {
		return nil
	}
	row := make([]string, 0, 2+len(header)+len(data))
	row = append(row, timestamp, MarkerTIME)
	row = append(row, header...)
	row = append(row, data...)

	reformatScientific(row, timeOffsetIndex)
	reformatScientific(row, timeOffsetStdIndex)
	return row
}

func reformatScientific(row []string, i int) {
	if i >= len(row) {
		return
	}
	v, err := strconv.ParseFloat(row[i], 64)
	if err != nil {
		// Non-numeric values stay as logged.
		return
	}
	row[i] = strconv.FormatFloat(v, 'E', 5, 64)
}

// PSRDOP keeps the DOP values and the elevation cutoff; the satellite list
// that follows is dropped.
const psrdopDataFields = 6

func decodePSRDOP(timestamp, line string) []string {
	header, data, ok := splitAbbrev(line, MarkerPSRDOP)
	if !ok {
		return nil
	}
	if len(data) > psrdopDataFields {
		data = data[:psrdopDataFields]
	}
	row := make([]string, 0, 2+len(header)+len(data))
	row = append(row, timestamp, MarkerPSRDOP)
	row = append(row, header...)
	row = append(row, data...)
	return row
}

// HWMONITORA sensor reading identifiers, in output column order.
var hwmonitorSensorIDs = []string{
	"100",  // temperature
	"200",  // antenna current
	"600",  // digital core 3V3 voltage
	"700",  // antenna voltage
	"800",  // digital 1V2 core voltage
	"f00",  // regulated supply voltage
	"1100", // 1V8
	"1500", // 5V voltage
	"1600", // secondary temperature
}

const hwmonitorStatusFlags = 9

// decodeHWMONITOR interprets the data part as a reading count followed by
// (value, identifier) pairs, looks up a fixed set of sensor identifiers and
// appends zero placeholders for the status flags. Absent identifiers map to
// empty strings.
func decodeHWMONITOR(timestamp, line string) []string {
	header, data, ok := splitAbbrev(line, MarkerHWMONITOR)
	if !ok {
		return nil
	}

	readings := make(map[string]string)
	for i := 1; i+1 < len(data); i += 2 {
		readings[data[i+1]] = data[i]
	}

	row := make([]string, 0, 2+len(header)+len(hwmonitorSensorIDs)+hwmonitorStatusFlags)
	row = append(row, timestamp, MarkerHWMONITOR)
	row = append(row, header...)
	for _, id := range hwmonitorSensorIDs {
		row = append(row, readings[id])
	}
	for i := 0; i < hwmonitorStatusFlags; i++ {
		row = append(row, "0")
	}
	return row
}

// GPGSV output geometry: up to 100 satellites, 4 fields each
// (PRN, elevation, azimuth, SNR). Unfilled slots carry the no-value marker.
const (
	gpgsvMaxSatellites = 100
	gpgsvSatFields     = 4
	gpgsvNoValue       = "#NV"
)

// DecodeGPGSV decodes a group of physically consecutive GPGSV sentences. It
// consumes lines from the front of the group while they continue the GPGSV
// prefix, concatenates their satellite-info fields in order and emits
// [timestamp, totalSatellites] followed by exactly 400 padded slots. The
// returned count says how many lines were consumed; a group whose first line
// is not a GPGSV sentence yields (nil, 0).
func DecodeGPGSV(timestamp string, lines []string) ([]string, int) {
	var satData []string
	totalSats := 0
	consumed := 0

	for _, line := range lines {
		if !strings.HasPrefix(line, MarkerGPGSV) {
			break
		}
		consumed++

		rest, found := strings.CutPrefix(line, MarkerGPGSV+",")
		if !found {
			continue
		}
		star := strings.LastIndexByte(rest, '*')
		if star < 0 {
			continue
		}
		fields := strings.Split(rest[:star], ",")
		if len(fields) < 4 {
			continue
		}
		if len(fields) == 4 && fields[3] == "" {
			// No satellite info at all.
			continue
		}
		// totalSentences, sentenceIndex and totalSatellites must all be
		// numeric for the sentence to count; the info fields beyond them
		// are taken as-is.
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		if _, err := strconv.Atoi(fields[1]); err != nil {
			continue
		}
		sats, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		totalSats = sats
		satData = append(satData, fields[3:]...)
	}

	if consumed == 0 {
		return nil, 0
	}

	row := make([]string, 0, 2+gpgsvMaxSatellites*gpgsvSatFields)
	row = append(row, timestamp, strconv.Itoa(totalSats))
	for i := 0; i < gpgsvMaxSatellites*gpgsvSatFields; i++ {
		if i < len(satData) {
			if v := strings.TrimSpace(satData[i]); v != "" {
				row = append(row, v)
				continue
			}
		}
		row = append(row, gpgsvNoValue)
	}
	return row, consumed
}
