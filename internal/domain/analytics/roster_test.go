package analytics_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/mercato/internal/domain/analytics"
	"github.com/okian/mercato/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func season(start int) string { return fmt.Sprintf("%d/%d", start, start+1) }

func names(entries []analytics.RosterEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Player)
	}
	return out
}

func TestCurrentRoster(t *testing.T) {
	Convey("Given a player who joined Ajax in 2010 and never left", t, func() {
		records := ledger(
			tr{player: "Suarez", club: "Ajax", dir: model.DirectionIn, year: 2010, season: "2010/2011",
				fee: "7.5", age: 23, position: "Centre-Forward", raw: "Groningen", resolved: "FC Groningen"},
		)

		Convey("Then he is on the roster for every season up to the tenure bound", func() {
			for y := 2010; y <= 2034; y++ {
				got, err := analytics.CurrentRoster(records, "Ajax", season(y))
				So(err, ShouldBeNil)
				So(names(got), ShouldResemble, []string{"Suarez"})
			}
		})

		Convey("Then he drops off past the bound and before arrival", func() {
			got, err := analytics.CurrentRoster(records, "Ajax", season(2035))
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)

			got, err = analytics.CurrentRoster(records, "Ajax", season(2009))
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Then the entry describes the arrival", func() {
			got, _ := analytics.CurrentRoster(records, "Ajax", "2012/2013")
			So(got, ShouldHaveLength, 1)
			So(got[0].From, ShouldEqual, "FC Groningen")
			So(got[0].Age, ShouldEqual, 23)
			So(got[0].Position, ShouldEqual, "Centre-Forward")
			So(got[0].Season, ShouldEqual, "2010/2011")
			So(got[0].Fee.Decimal.Equal(dec("7.5")), ShouldBeTrue)
		})

		Convey("Then a tighter bound is honoured", func() {
			got, err := analytics.CurrentRoster(records, "Ajax", season(2016), analytics.WithMaxTenureYears(5))
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When a later departure is added", func() {
			records = append(records, tr{player: "Suarez", club: "Ajax", dir: model.DirectionOut, year: 2014, resolved: "Liverpool"}.build())

			Convey("Then he is gone from that season on", func() {
				got, _ := analytics.CurrentRoster(records, "Ajax", season(2013))
				So(names(got), ShouldResemble, []string{"Suarez"})

				got, _ = analytics.CurrentRoster(records, "Ajax", season(2014))
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When he returns after leaving", func() {
			records = append(records,
				tr{player: "Suarez", club: "Ajax", dir: model.DirectionOut, year: 2014, resolved: "Liverpool"}.build(),
				tr{player: "Suarez", club: "Ajax", dir: model.DirectionIn, year: 2020, raw: "Liverpool FC", resolved: "Liverpool"}.build(),
			)

			Convey("Then the latest arrival qualifies", func() {
				got, _ := analytics.CurrentRoster(records, "Ajax", season(2021))
				So(got, ShouldHaveLength, 1)
				So(got[0].Year, ShouldEqual, 2020)
				So(got[0].From, ShouldEqual, "Liverpool")
			})
		})
	})

	Convey("Given same-year moves", t, func() {
		Convey("When the departure comes after the arrival in the ledger", func() {
			records := ledger(
				tr{player: "X", club: "PSV", dir: model.DirectionIn, year: 2012},
				tr{player: "X", club: "PSV", dir: model.DirectionOut, year: 2012},
			)
			got, _ := analytics.CurrentRoster(records, "PSV", "2012/2013")

			Convey("Then the player has left", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the arrival comes after the departure in the ledger", func() {
			records := ledger(
				tr{player: "X", club: "PSV", dir: model.DirectionOut, year: 2012},
				tr{player: "X", club: "PSV", dir: model.DirectionIn, year: 2012, raw: "Vitesse"},
			)
			got, _ := analytics.CurrentRoster(records, "PSV", "2012/2013")

			Convey("Then the player is current and the raw name is kept when unresolved", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].From, ShouldEqual, "Vitesse")
			})
		})
	})

	Convey("Given several current players", t, func() {
		records := ledger(
			tr{player: "B", club: "AZ", dir: model.DirectionIn, year: 2015},
			tr{player: "A", club: "AZ", dir: model.DirectionIn, year: 2015},
			tr{player: "C", club: "AZ", dir: model.DirectionIn, year: 2018},
			tr{player: "D", club: "Ajax", dir: model.DirectionIn, year: 2018},
			tr{player: "E", club: "AZ", dir: model.DirectionOut, year: 2016},
		)
		got, _ := analytics.CurrentRoster(records, "AZ", "2019/2020")

		Convey("Then they are ordered by arrival then name and other clubs are ignored", func() {
			So(names(got), ShouldResemble, []string{"C", "A", "B"})
		})
	})

	Convey("Given an unparsable season", t, func() {
		_, err := analytics.CurrentRoster(nil, "Ajax", "20xx")

		Convey("Then ErrInvalidSeason is returned", func() {
			So(errors.Is(err, analytics.ErrInvalidSeason), ShouldBeTrue)
		})
	})
}
