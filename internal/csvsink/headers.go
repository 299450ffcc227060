package csvsink

import (
	"fmt"

	"oem719parse/internal/oem719"
)

// Abbreviated-ASCII log header columns, shared by every # log after the
// timestamp and message marker.
var abbrevHeaderColumns = []string{
	"Port", "Sequence", "Idle Time", "Time Status", "Week", "Seconds",
	"Receiver Status", "Reserved", "SW Version",
}

var bestxyzColumns = append(append([]string{"Timestamp", "Message"},
	abbrevHeaderColumns...),
	"P-sol Status", "Pos Type", "P-X (m)", "P-Y (m)", "P-Z (m)",
	"P-X StdDev (m)", "P-Y StdDev (m)", "P-Z StdDev (m)",
	"V-sol Status", "Vel Type", "V-X (m/s)", "V-Y (m/s)", "V-Z (m/s)",
	"V-X StdDev (m/s)", "V-Y StdDev (m/s)", "V-Z StdDev (m/s)",
	"Station ID", "V-latency (s)", "Diff Age (s)", "Sol Age (s)",
	"SVs Tracked", "SVs Used", "GGL1 SVs", "Multi-freq SVs",
	"Reserved 2", "Ext Sol Status", "Galileo/BeiDou Sig Mask", "GPS/GLONASS Sig Mask",
)

var timeColumns = append(append([]string{"Timestamp", "Message"},
	abbrevHeaderColumns...),
	"Clock Status", "Offset (s)", "Offset StdDev (s)", "UTC Offset (s)",
	"UTC Year", "UTC Month", "UTC Day", "UTC Hour", "UTC Minute", "UTC ms",
	"UTC Status",
)

var psrdopColumns = append(append([]string{"Timestamp", "Message"},
	abbrevHeaderColumns...),
	"GDOP", "PDOP", "HDOP", "HTDOP", "TDOP", "Elevation Cutoff (deg)",
)

var hwmonitorColumns = append(append([]string{"Timestamp", "Message"},
	abbrevHeaderColumns...),
	"Temperature (C)", "Antenna Current (A)", "Core Voltage 3V3 (V)",
	"Antenna Voltage (V)", "Core Voltage 1V2 (V)", "Supply Voltage (V)",
	"Voltage 1V8 (V)", "Voltage 5V (V)", "Secondary Temperature (C)",
	"Status 1", "Status 2", "Status 3", "Status 4", "Status 5",
	"Status 6", "Status 7", "Status 8", "Status 9",
)

var rawColumns = []string{"Timestamp", "Raw Data"}

func gpgsvColumns() []string {
	cols := make([]string, 0, 402)
	cols = append(cols, "Timestamp", "Total Satellites")
	for i := 1; i <= 100; i++ {
		cols = append(cols,
			fmt.Sprintf("Sat %d PRN", i),
			fmt.Sprintf("Sat %d Elevation", i),
			fmt.Sprintf("Sat %d Azimuth", i),
			fmt.Sprintf("Sat %d SNR", i),
		)
	}
	return cols
}

// headersFor returns the fixed column header row for a channel.
func headersFor(t oem719.MessageType) []string {
	switch t {
	case oem719.TypeBESTXYZ:
		return bestxyzColumns
	case oem719.TypeTIME:
		return timeColumns
	case oem719.TypePSRDOP:
		return psrdopColumns
	case oem719.TypeHWMONITOR:
		return hwmonitorColumns
	case oem719.TypeGPGSV:
		return gpgsvColumns()
	case oem719.TypeRAW:
		return rawColumns
	default:
		return nil
	}
}
