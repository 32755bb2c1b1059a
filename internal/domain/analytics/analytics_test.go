package analytics_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/domain/analytics"
	"github.com/okian/mercato/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTopForeignClubs(t *testing.T) {
	Convey("Given incoming and outgoing Eredivisie transfers", t, func() {
		records := ledger(
			tr{player: "A", club: "Ajax", league: "Eredivisie", dir: model.DirectionIn, fee: "10", resolved: "Benfica", otherLeague: "Liga Portugal"},
			tr{player: "B", club: "Ajax", league: "Eredivisie", dir: model.DirectionIn, fee: "5", resolved: "Benfica", otherLeague: "Liga Portugal"},
			tr{player: "C", club: "PSV", league: "Eredivisie", dir: model.DirectionIn, fee: "15", resolved: "Porto", otherLeague: "Liga Portugal"},
			tr{player: "D", club: "PSV", league: "Eredivisie", dir: model.DirectionIn, fee: "50", resolved: "Ajax", otherLeague: "Eredivisie"},
			tr{player: "E", club: "PSV", league: "Eredivisie", dir: model.DirectionIn, fee: "70", raw: "Shanghai Port"},
			tr{player: "F", club: "Ajax", league: "Eredivisie", dir: model.DirectionOut, fee: "90", resolved: "Chelsea", otherLeague: "Premier League"},
			tr{player: "G", club: "Ajax", league: "Eredivisie", dir: model.DirectionIn, resolved: "Celtic", otherLeague: "Premiership"},
		)

		Convey("When ranking incoming counterparties", func() {
			got := analytics.TopForeignClubs(records, model.DirectionIn, "Eredivisie")

			Convey("Then same-league, unresolved and other-direction rows are left out", func() {
				So(got, ShouldHaveLength, 3)
				So(got[0].Name, ShouldEqual, "Benfica")
				So(got[0].TotalFee.Equal(dec("15")), ShouldBeTrue)
				So(got[0].Count, ShouldEqual, 2)
				So(got[1].Name, ShouldEqual, "Porto")
				So(got[2].Name, ShouldEqual, "Celtic")
				So(got[2].TotalFee.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the limit is one", func() {
			got := analytics.TopForeignClubs(records, model.DirectionIn, "Eredivisie", analytics.WithLimit(1))

			Convey("Then ties resolve by name", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].Name, ShouldEqual, "Benfica")
			})
		})

		Convey("When ranking outgoing counterparties", func() {
			got := analytics.TopForeignClubs(records, model.DirectionOut, "Eredivisie")

			Convey("Then only the sale is listed", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].Name, ShouldEqual, "Chelsea")
			})
		})
	})

	Convey("Given no records", t, func() {
		Convey("Then the ranking is empty", func() {
			So(analytics.TopForeignClubs(nil, model.DirectionIn, "Eredivisie"), ShouldBeEmpty)
		})
	})
}

func TestTopPlayers(t *testing.T) {
	Convey("Given twelve players with distinct fees", t, func() {
		var rows []tr
		for i := 1; i <= 12; i++ {
			rows = append(rows, tr{player: fmt.Sprintf("P%02d", i), club: "Ajax", dir: model.DirectionIn, fee: fmt.Sprint(i)})
		}
		rows = append(rows, tr{player: "P01", club: "PSV", dir: model.DirectionOut, fee: "100"})
		records := ledger(rows...)

		got := analytics.TopPlayers(records)

		Convey("Then the ten largest sums are returned in order", func() {
			So(got, ShouldHaveLength, analytics.DefaultLimit)
			So(got[0].Name, ShouldEqual, "P01")
			So(got[0].TotalFee.Equal(dec("101")), ShouldBeTrue)
			So(got[1].Name, ShouldEqual, "P12")
			So(got[9].Name, ShouldEqual, "P04")
		})
	})
}

func TestClubSummaries(t *testing.T) {
	Convey("Given a small two-club ledger", t, func() {
		records := ledger(
			tr{player: "A", club: "Ajax", dir: model.DirectionIn, fee: "10", age: 20},
			tr{player: "B", club: "Ajax", dir: model.DirectionOut, fee: "25", age: 24},
			tr{player: "C", club: "Ajax", dir: model.DirectionIn, feeText: "Free Transfer", age: 30},
			tr{player: "D", club: "Ajax", dir: model.DirectionIn, feeText: "loan transfer"},
			tr{player: "E", club: "PSV", dir: model.DirectionOut, fee: "40", feeText: "€40.00m", age: 27},
			tr{player: "F", club: "AZ", dir: model.DirectionIn, feeText: "?", age: 0},
		)

		got := analytics.ClubSummaries(records)

		Convey("Then rows are sorted by volume", func() {
			So(got, ShouldHaveLength, 3)
			So(got[0].Club, ShouldEqual, "PSV")
			So(got[1].Club, ShouldEqual, "Ajax")
			So(got[2].Club, ShouldEqual, "AZ")
		})

		Convey("Then the Ajax figures add up", func() {
			ajax := got[1]
			So(ajax.TotalVolume.Equal(dec("35")), ShouldBeTrue)
			So(ajax.Transfers, ShouldEqual, 4)
			So(ajax.Profit.Equal(dec("15")), ShouldBeTrue)
			So(ajax.MedianAge, ShouldEqual, 24)
			So(ajax.FreeTransfers, ShouldEqual, 1)
			So(ajax.Loans, ShouldEqual, 1)
		})

		Convey("Then a club with no known age and malformed fee text reports zeros", func() {
			az := got[2]
			So(az.MedianAge, ShouldEqual, 0)
			So(az.TotalVolume.IsZero(), ShouldBeTrue)
			So(az.FreeTransfers, ShouldEqual, 0)
			So(az.Loans, ShouldEqual, 0)
		})

		Convey("Then volumes and counts cover the whole ledger", func() {
			volume := decimal.Zero
			count := 0
			for _, row := range got {
				volume = volume.Add(row.TotalVolume)
				count += row.Transfers
			}
			So(volume.Equal(dec("75")), ShouldBeTrue)
			So(count, ShouldEqual, len(records))
		})
	})

	Convey("Given an even number of ages", t, func() {
		records := ledger(
			tr{player: "A", club: "Ajax", dir: model.DirectionIn, age: 20},
			tr{player: "B", club: "Ajax", dir: model.DirectionIn, age: 23},
		)

		Convey("Then the median is the midpoint", func() {
			So(analytics.ClubSummaries(records)[0].MedianAge, ShouldEqual, 21.5)
		})
	})
}
