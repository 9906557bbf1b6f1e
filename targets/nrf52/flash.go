//go:build nrf52 || nrf52833 || nrf52840

package main

import (
	"device/nrf"
	"runtime/volatile"
	"unsafe"

	"radiosoc/power"
)

const (
	flashPageSize = 4096

	// Last page of the smallest nRF52 part; the linker script keeps the
	// application below it.
	tracePageAddress = 0x80000 - flashPageSize
	traceWords       = flashPageSize / 4
)

// nvmcFlash is one page of internal flash written through the NVMC.
type nvmcFlash struct{}

func flashWord(index int) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(tracePageAddress + 4*index)))
}

func waitNVMCReady() {
	for nrf.NVMC.READY.Get()&nrf.NVMC_READY_READY_Msk == 0 {
	}
}

func (nvmcFlash) ReadWords(index int, words []uint32) error {
	if index < 0 || index+len(words) > traceWords {
		return power.ErrFlashRange
	}
	for i := range words {
		words[i] = flashWord(index + i).Get()
	}
	return nil
}

func (nvmcFlash) WriteWords(index int, words []uint32) error {
	if index < 0 || index+len(words) > traceWords {
		return power.ErrFlashRange
	}
	nrf.NVMC.CONFIG.Set(nrf.NVMC_CONFIG_WEN_Wen)
	waitNVMCReady()
	for i, w := range words {
		flashWord(index + i).Set(w)
		waitNVMCReady()
	}
	nrf.NVMC.CONFIG.Set(nrf.NVMC_CONFIG_WEN_Ren)
	waitNVMCReady()
	return nil
}

// Erase clears the trace page, after the records were read out.
func (nvmcFlash) Erase() {
	nrf.NVMC.CONFIG.Set(nrf.NVMC_CONFIG_WEN_Een)
	waitNVMCReady()
	nrf.NVMC.ERASEPAGE.Set(tracePageAddress)
	waitNVMCReady()
	nrf.NVMC.CONFIG.Set(nrf.NVMC_CONFIG_WEN_Ren)
	waitNVMCReady()
}
