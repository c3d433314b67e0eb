package model

// Package model defines domain data structures used across the app: the linac
// and cryomodule layout, tri-state cavity selection, acquisition tasks, status
// enums and decoded datasets. Structures are designed for direct binding in the
// UI and explicit state transitions.
