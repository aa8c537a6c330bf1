package server

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// memoryStats returns total and available system memory in bytes.
func memoryStats() (total uint64, available uint64, err error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get memory stats")
	}
	return v.Total, v.Available, nil
}
