package main

import _ "embed"

// iconData is the grass block tray icon (64x64 PNG) embedded at compile time.
//
//go:embed tray-icon.png
var iconData []byte
