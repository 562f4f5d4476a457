package cmsis

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"periphgen/internal/mapping"
	"periphgen/internal/peripheral"
	"periphgen/internal/register"
)

func buildPeripheral() (*peripheral.Peripheral, *register.Register) {
	p := peripheral.New("USART1", "", nil)
	cr := register.New("CR1", "", nil, 32, register.ReadWrite)
	p.AddRegister(cr)
	p.AddPlacement(mapping.NewElement("CR1", nil, cr, 0x00))
	return p, cr
}

func TestCheckPeripheralNoDiscrepancy(t *testing.T) {
	p, _ := buildPeripheral()
	header := HeaderPeripheral{Name: "USART1", Registers: []HeaderRegister{
		{Name: "CR1", Type: "uint32_t", ArraySize: 1},
	}}
	require.Empty(t, CheckPeripheral(p, header))
}

func TestCheckPeripheralSkipsReserved(t *testing.T) {
	p, _ := buildPeripheral()
	header := HeaderPeripheral{Name: "USART1", Registers: []HeaderRegister{
		{Name: "RESERVED0", Type: "uint32_t", ArraySize: 4},
	}}
	require.Empty(t, CheckPeripheral(p, header))
}

func TestCheckPeripheralSkipsUnknownRegister(t *testing.T) {
	p, _ := buildPeripheral()
	header := HeaderPeripheral{Name: "USART1", Registers: []HeaderRegister{
		{Name: "NOTPRESENT", Type: "uint32_t", ArraySize: 1},
	}}
	require.Empty(t, CheckPeripheral(p, header))
}

func TestCheckPeripheralArraySizeMismatch(t *testing.T) {
	p, _ := buildPeripheral()
	header := HeaderPeripheral{Name: "USART1", Registers: []HeaderRegister{
		{Name: "CR1", Type: "uint32_t", ArraySize: 4},
	}}
	warnings := CheckPeripheral(p, header)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Error(), "array size mismatch")
}

func TestCheckPeripheralScalarTypeMatchesSubPeripheral(t *testing.T) {
	p := peripheral.New("SYSCFG", "", nil)
	sub := peripheral.New("EXTI", "", nil)
	p.AddPlacement(mapping.NewElement("EXTI", nil, sub, 0x00))

	header := HeaderPeripheral{Name: "SYSCFG", Registers: []HeaderRegister{
		{Name: "EXTI", Type: "uint32_t", ArraySize: 1},
	}}
	warnings := CheckPeripheral(p, header)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Error(), "doesn't match sub-peripheral")
}

func TestCheckPeripheralNonScalarTypeMatchesRegister(t *testing.T) {
	p, _ := buildPeripheral()
	header := HeaderPeripheral{Name: "USART1", Registers: []HeaderRegister{
		{Name: "CR1", Type: "USART_CR1_t", ArraySize: 1},
	}}
	warnings := CheckPeripheral(p, header)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Error(), "doesn't match register")
}
