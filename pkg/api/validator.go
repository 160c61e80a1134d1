package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

const maxTeams = 8

var (
	errEntity = errors.New("entity is required")
	errCell   = errors.New("target cell out of map")
)

func (p LoginPayload) Validate() error {
	if p.Team < 0 || p.Team >= maxTeams {
		return errors.New("team out of range")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if p.Entity <= 0 {
		return errEntity
	}
	if p.X < 0 || p.Y < 0 {
		return errCell
	}
	return nil
}

func (p TurnPayload) Validate() error {
	if p.Entity <= 0 {
		return errEntity
	}
	if p.Dir < 0 || p.Dir > 7 {
		return errors.New("direction must be 0..7")
	}
	return nil
}

func (p ShootPayload) Validate() error {
	if p.Entity <= 0 {
		return errEntity
	}
	if p.X < 0 || p.Y < 0 {
		return errCell
	}
	if p.Hand != 0 && p.Hand != 1 {
		return errors.New("hand must be 0 (right) or 1 (left)")
	}
	if p.FireDef < 0 {
		return errors.New("fireDef must be non-negative")
	}
	return nil
}

func (p StatePayload) Validate() error {
	if p.Entity <= 0 {
		return errEntity
	}
	if p.State == "" {
		return errors.New("state is required")
	}
	return nil
}

func (p EntityPayload) Validate() error {
	if p.Entity <= 0 {
		return errEntity
	}
	return nil
}
