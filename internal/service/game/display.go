package game

// CardView is one card as the page draws it.
type CardView struct {
	Code   string `json:"code,omitempty"`
	Rank   string `json:"rank,omitempty"`
	Suit   string `json:"suit,omitempty"`
	Symbol string `json:"symbol,omitempty"`
	FaceUp bool   `json:"faceUp"`
}

type HandView struct {
	Cards []CardView `json:"cards"`
	Score int        `json:"score"`
	// Synthetic is set when Score is a placeholder for a forced outcome.
	Synthetic bool `json:"synthetic,omitempty"`
}

type TableView struct {
	Variant        string   `json:"variant"`
	Title          string   `json:"title"`
	Phase          Phase    `json:"phase"`
	Bet            int64    `json:"bet"`
	Doubled        bool     `json:"doubled,omitempty"`
	Player         HandView `json:"player"`
	Dealer         HandView `json:"dealer"`
	Outcome        Outcome  `json:"outcome,omitempty"`
	Forced         bool     `json:"forced,omitempty"`
	Message        string   `json:"message,omitempty"`
	AllowedActions []string `json:"allowedActions"`
	CardsLeft      int      `json:"cardsLeft"`
}

// DisplayHand renders a hand. With concealHole set the second card is face down.
func DisplayHand(h Hand, concealHole bool) []CardView {
	views := make([]CardView, 0, len(h))
	for i, c := range h {
		if concealHole && i == 1 {
			views = append(views, CardView{FaceUp: false})
			continue
		}
		views = append(views, CardView{
			Code:   c.String(),
			Rank:   c.Rank.Label(),
			Suit:   c.Suit.String(),
			Symbol: c.Suit.Symbol(),
			FaceUp: true,
		})
	}
	return views
}

// forcedScores are the placeholder totals shown for weighted outcomes.
var forcedScores = map[Outcome][2]int{
	OutcomeWin:  {21, 18},
	OutcomeLoss: {17, 20},
	OutcomeDraw: {19, 19},
}

// View exports the round for the render collaborator.
func (r *Round) View() TableView {
	conceal := r.phase == PhasePlayerTurn
	view := TableView{
		Variant:        r.variant.Name,
		Title:          r.variant.Title,
		Phase:          r.phase,
		Bet:            r.bet,
		Doubled:        r.doubled,
		AllowedActions: r.AllowedActions(),
		CardsLeft:      r.deck.Remaining(),
		Player: HandView{
			Cards: DisplayHand(r.player, false),
			Score: Score(r.player),
		},
		Dealer: HandView{
			Cards: DisplayHand(r.dealer, conceal),
		},
	}
	if view.AllowedActions == nil {
		view.AllowedActions = []string{}
	}
	if conceal && len(r.dealer) > 0 {
		view.Dealer.Score = Score(r.dealer[:1])
	} else {
		view.Dealer.Score = Score(r.dealer)
	}

	if res := r.result; res != nil {
		view.Outcome = res.Outcome
		view.Forced = res.Forced
		view.Message = OutcomeMessage(*res)
		if res.Forced {
			if scores, ok := forcedScores[res.Outcome]; ok {
				view.Player.Score, view.Dealer.Score = scores[0], scores[1]
				view.Player.Synthetic, view.Dealer.Synthetic = true, true
			}
		}
	}
	return view
}

func OutcomeMessage(res Result) string {
	switch res.Outcome {
	case OutcomeNatural:
		return "Blackjack! You win!"
	case OutcomeWin:
		if res.DealerBust {
			return "Dealer busts! You win!"
		}
		return "You beat the dealer!"
	case OutcomeBust:
		return "Busted! Dealer wins."
	case OutcomeLoss:
		return "Dealer wins."
	case OutcomeDraw:
		return "Push. Your bet is returned."
	}
	return ""
}
