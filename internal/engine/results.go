package engine

import (
	"battlescape-server/internal/domain"
	"battlescape-server/internal/events"
	"fmt"
)

// SurvivorResult - итог миссии одного защитника (TEAM_PHALANX).
type SurvivorResult struct {
	UCN              int                      `json:"ucn" msgpack:"ucn"`
	HP               int                      `json:"hp" msgpack:"hp"`
	STUN             int                      `json:"stun" msgpack:"stun"`
	Morale           int                      `json:"morale" msgpack:"morale"`
	Experience       [domain.SkillNum + 1]int `json:"experience" msgpack:"experience"`
	Skills           [domain.SkillNum]int     `json:"skills" msgpack:"skills"`
	Kills            [domain.KillNum]int      `json:"kills" msgpack:"kills"`
	Stuns            [domain.KillNum]int      `json:"stuns" msgpack:"stuns"`
	AssignedMissions int                      `json:"assignedMissions" msgpack:"assignedMissions"`
	Rank             int                      `json:"rank" msgpack:"rank"`
}

// Results - агрегированный итог матча в порядке полей EV_RESULTS.
type Results struct {
	Winner    domain.Team                           `json:"winner" msgpack:"winner"`
	Spawned   [domain.MaxTeams]int                  `json:"spawned" msgpack:"spawned"`
	Alive     [domain.MaxTeams]int                  `json:"alive" msgpack:"alive"`
	Kills     [domain.MaxTeams][domain.MaxTeams]int `json:"kills" msgpack:"kills"`
	Stuns     [domain.MaxTeams][domain.MaxTeams]int `json:"stuns" msgpack:"stuns"`
	Survivors []SurvivorResult                      `json:"survivors" msgpack:"survivors"`
}

// payloadWriter - часть events.Sink, через которую пишутся поля.
type payloadWriter interface {
	PutByte(v int)
	PutShort(v int)
	PutLong(v int)
}

// put пишет нагрузку EV_RESULTS.
func (r *Results) put(w payloadWriter) {
	w.PutByte(domain.MaxTeams)
	w.PutByte(int(r.Winner))
	for t := 0; t < domain.MaxTeams; t++ {
		w.PutByte(r.Spawned[t])
		w.PutByte(r.Alive[t])
	}
	for i := 0; i < domain.MaxTeams; i++ {
		for j := 0; j < domain.MaxTeams; j++ {
			w.PutByte(r.Kills[i][j])
		}
	}
	for i := 0; i < domain.MaxTeams; i++ {
		for j := 0; j < domain.MaxTeams; j++ {
			w.PutByte(r.Stuns[i][j])
		}
	}

	w.PutByte(len(r.Survivors))
	for _, s := range r.Survivors {
		w.PutShort(s.UCN)
		w.PutShort(s.HP)
		w.PutByte(s.STUN)
		w.PutByte(s.Morale)
		for _, xp := range s.Experience {
			w.PutLong(xp)
		}
		for _, v := range s.Skills {
			w.PutByte(v)
		}
		for _, v := range s.Kills {
			w.PutShort(v)
		}
		for _, v := range s.Stuns {
			w.PutShort(v)
		}
		w.PutShort(s.AssignedMissions)
		w.PutByte(s.Rank)
	}
}

// EncodeResults возвращает байты нагрузки EV_RESULTS.
func EncodeResults(r *Results) []byte {
	b := events.NewBuffer()
	b.AddEvent(domain.PMAll, events.EvResults)
	r.put(b)
	b.EndEvents()
	return b.Events()[0].Payload
}

// DecodeResults разбирает нагрузку EV_RESULTS.
func DecodeResults(data []byte) (*Results, error) {
	rd := events.NewReader(data)
	teams := rd.Byte()
	if rd.Err() == nil && teams != domain.MaxTeams {
		return nil, fmt.Errorf("decode results: %d teams, want %d", teams, domain.MaxTeams)
	}

	r := &Results{Winner: domain.Team(rd.Byte())}
	for t := 0; t < domain.MaxTeams; t++ {
		r.Spawned[t] = rd.Byte()
		r.Alive[t] = rd.Byte()
	}
	for i := 0; i < domain.MaxTeams; i++ {
		for j := 0; j < domain.MaxTeams; j++ {
			r.Kills[i][j] = rd.Byte()
		}
	}
	for i := 0; i < domain.MaxTeams; i++ {
		for j := 0; j < domain.MaxTeams; j++ {
			r.Stuns[i][j] = rd.Byte()
		}
	}

	n := rd.Byte()
	for i := 0; i < n && rd.Err() == nil; i++ {
		var s SurvivorResult
		s.UCN = rd.Short()
		s.HP = rd.Short()
		s.STUN = rd.Byte()
		s.Morale = rd.Byte()
		for k := range s.Experience {
			s.Experience[k] = rd.Long()
		}
		for k := range s.Skills {
			s.Skills[k] = rd.Byte()
		}
		for k := range s.Kills {
			s.Kills[k] = rd.Short()
		}
		for k := range s.Stuns {
			s.Stuns[k] = rd.Short()
		}
		s.AssignedMissions = rd.Short()
		s.Rank = rd.Byte()
		r.Survivors = append(r.Survivors, s)
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return r, nil
}

// collectResults снимает итог с уровня и защитников арены.
func (g *Game) collectResults(winner domain.Team) *Results {
	lvl := g.ctx.Level
	r := &Results{
		Winner:  winner,
		Spawned: lvl.NumSpawned,
		Alive:   lvl.NumAlive,
		Kills:   lvl.NumKills,
		Stuns:   lvl.NumStuns,
	}
	// мертвые защитники тоже входят: клиент читает всех своих
	for ent := range g.ctx.Store.Actors() {
		if ent.Team != domain.TeamPhalanx {
			continue
		}
		chr := &ent.Chr
		r.Survivors = append(r.Survivors, SurvivorResult{
			UCN:              chr.UCN,
			HP:               ent.HP,
			STUN:             ent.STUN,
			Morale:           ent.Morale,
			Experience:       chr.Score.Experience,
			Skills:           chr.Score.Skills,
			Kills:            chr.Score.Kills,
			Stuns:            chr.Score.Stuns,
			AssignedMissions: chr.AssignedMissions,
			Rank:             chr.Rank,
		})
	}
	return r
}
