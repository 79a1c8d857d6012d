package domain

// Outcome es el resultado binario que se envía al servicio de resolución.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeYes
	OutcomeNo
)

func (o Outcome) String() string {
	switch o {
	case OutcomeYes:
		return "yes"
	case OutcomeNo:
		return "no"
	default:
		return "unknown"
	}
}

// Dispatchable devuelve true si el outcome puede enviarse como comando resolve.
func (o Outcome) Dispatchable() bool {
	return o == OutcomeYes || o == OutcomeNo
}

// DrawPolicy decide qué hacer con un evento terminado en empate.
type DrawPolicy int

const (
	// DrawResolveNo resuelve No todo mercado de participante ligado al evento.
	DrawResolveNo DrawPolicy = iota
	// DrawHold deja el mercado sin resolver para que se liquide como Draw a mano.
	DrawHold
)

// ParseDrawPolicy acepta "no" y "hold". Cualquier otro valor devuelve DrawResolveNo.
func ParseDrawPolicy(s string) DrawPolicy {
	if s == "hold" {
		return DrawHold
	}
	return DrawResolveNo
}

func (p DrawPolicy) String() string {
	if p == DrawHold {
		return "hold"
	}
	return "no"
}

// Decision es lo que el matcher concluye para un mercado.
type Decision struct {
	Outcome Outcome
	Match   MatchKind // confianza del match de nombres que llevó al outcome
	Draw    bool      // el evento terminó empatado
	Reason  string
}

// Ambiguous devuelve true si el outcome enviado no se apoya en un match exacto.
func (d Decision) Ambiguous() bool {
	return d.Outcome.Dispatchable() && d.Match != MatchExact
}

// Decide concilia el participante de un mercado con el resultado de su evento.
// Es una función pura: sin I/O ni efectos secundarios.
//
// Los matches exactos se evalúan antes que los de contención, tanto contra el
// ganador como contra los participantes, para que "real_madrid" no resuelva Yes
// cuando ganó "Real Madrid Castilla" y el propio Real Madrid jugó.
// El Match devuelto es el eslabón más débil de la cadena participante → lado → ganador.
func Decide(id MarketIdentity, result *EventResult, policy DrawPolicy) Decision {
	if result == nil {
		return Decision{Reason: "no result for event"}
	}

	winner := result.Winner
	if winner == "" {
		if result.Status != StatusFinished {
			return Decision{Reason: "event " + result.Status.String()}
		}
		if result.Scores == nil {
			return Decision{Reason: "finished without winner or scores"}
		}
		switch {
		case result.Scores.A > result.Scores.B:
			winner = result.ParticipantA
		case result.Scores.B > result.Scores.A:
			winner = result.ParticipantB
		default:
			if policy == DrawHold {
				return Decision{Draw: true, Reason: "draw held for manual settlement"}
			}
			match := bestMatch(id.Participant, []side{
				{name: result.ParticipantA, link: MatchExact},
				{name: result.ParticipantB, link: MatchExact},
			})
			return Decision{Outcome: OutcomeNo, Draw: true, Match: match, Reason: "draw"}
		}
		if winner == "" {
			return Decision{Reason: "winner derived from scores has no name"}
		}
	}

	winners, losers := splitSides(winner, result)
	toWinner := bestMatch(id.Participant, winners)
	toLoser := bestMatch(id.Participant, losers)

	switch {
	case toWinner == MatchExact:
		return Decision{Outcome: OutcomeYes, Match: MatchExact, Reason: "participant won"}
	case toLoser == MatchExact:
		return Decision{Outcome: OutcomeNo, Match: MatchExact, Reason: "participant lost"}
	case toWinner == MatchContains:
		return Decision{Outcome: OutcomeYes, Match: MatchContains, Reason: "participant won (partial name)"}
	case toLoser == MatchContains:
		return Decision{Outcome: OutcomeNo, Match: MatchContains, Reason: "participant lost (partial name)"}
	default:
		return Decision{Reason: "participant not found in event"}
	}
}

// side es un nombre de un lado del evento junto con la confianza con la que
// se le asignó ese lado.
type side struct {
	name string
	link MatchKind
}

// splitSides separa los nombres del lado ganador y del perdedor.
// El lado ganador es el participante que mejor coincide con winner; su link es
// la calidad de ese match, y el perdedor hereda el mismo link. Si ninguno
// coincide, ambos participantes quedan del lado perdedor.
func splitSides(winner string, r *EventResult) (winners, losers []side) {
	winners = []side{{name: winner, link: MatchExact}}
	ka := CompareParticipants(r.ParticipantA, winner)
	kb := CompareParticipants(r.ParticipantB, winner)

	switch {
	case ka > kb:
		winners = append(winners, side{name: r.ParticipantA, link: ka})
		losers = []side{{name: r.ParticipantB, link: ka}}
	case kb > ka:
		winners = append(winners, side{name: r.ParticipantB, link: kb})
		losers = []side{{name: r.ParticipantA, link: kb}}
	case ka == MatchNone:
		losers = []side{
			{name: r.ParticipantA, link: MatchExact},
			{name: r.ParticipantB, link: MatchExact},
		}
	}
	return winners, losers
}

// bestMatch devuelve el mejor match del participante contra los lados dados,
// limitado por el link de cada lado.
func bestMatch(participant string, sides []side) MatchKind {
	best := MatchNone
	for _, s := range sides {
		k := min(CompareParticipants(s.name, participant), s.link)
		if k > best {
			best = k
		}
	}
	return best
}
