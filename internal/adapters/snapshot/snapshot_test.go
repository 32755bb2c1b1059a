package snapshot_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/okian/mercato/internal/adapters/snapshot"
	"github.com/okian/mercato/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() []model.ResolvedTransferRecord {
	return []model.ResolvedTransferRecord{
		{
			TransferRecord: model.TransferRecord{
				PlayerName: "Hirving Lozano", Age: 24, Position: "Left Winger", FeeText: "€42.00m",
				Fee: decimal.NewNullDecimal(decimal.RequireFromString("42")), Window: model.WindowSummer,
				Direction: model.DirectionOut, ClubName: "PSV Eindhoven", Counterparty: "SSC Napoli",
				LeagueName: "Eredivisie", Season: "2019/2020", Year: 2019, Country: "Netherlands",
			},
			CounterpartyResolved: "SSC Napoli",
			CounterpartyLeague:   "Serie A",
		},
		{
			TransferRecord: model.TransferRecord{
				PlayerName: "Unknown, Jr.", FeeText: "loan transfer", Window: model.WindowWinter,
				Direction: model.DirectionIn, ClubName: "Ajax", Counterparty: "Shanghai \"Port\"",
				LeagueName: "Eredivisie", Season: "2020/2021", Year: 2021,
			},
		},
	}
}

func TestSaveLoad(t *testing.T) {
	Convey("Given a reconciled ledger", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "transfers.csv.gz")
		records := sample()

		Convey("When it is saved and loaded again", func() {
			So(snapshot.Save(ctx, path, records), ShouldBeNil)
			got, err := snapshot.Load(ctx, path)

			Convey("Then every field survives including nulls and quoting", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Fee.Decimal.Equal(records[0].Fee.Decimal), ShouldBeTrue)
				got[0].Fee = records[0].Fee
				So(got[0], ShouldResemble, records[0])
				So(got[1], ShouldResemble, records[1])
			})

			Convey("Then no temporary files are left behind", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given no snapshot on disk", t, func() {
		_, err := snapshot.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv.gz"))

		Convey("Then ErrNoData is returned", func() {
			So(errors.Is(err, model.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given an empty ledger was saved", t, func() {
		path := filepath.Join(t.TempDir(), "empty.csv.gz")
		So(snapshot.Save(context.Background(), path, nil), ShouldBeNil)
		_, err := snapshot.Load(context.Background(), path)

		Convey("Then loading reports no data", func() {
			So(errors.Is(err, model.ErrNoData), ShouldBeTrue)
		})
	})

	Convey("Given a file that is not gzip", t, func() {
		path := filepath.Join(t.TempDir(), "plain.csv.gz")
		So(os.WriteFile(path, []byte("club_name\n"), 0o600), ShouldBeNil)
		_, err := snapshot.Load(context.Background(), path)

		Convey("Then ErrSnapshot is returned", func() {
			So(errors.Is(err, snapshot.ErrSnapshot), ShouldBeTrue)
		})
	})

	Convey("Given an in-memory round trip", t, func() {
		var buf bytes.Buffer
		So(snapshot.Encode(context.Background(), &buf, sample()), ShouldBeNil)
		got, err := snapshot.Decode(context.Background(), bytes.NewReader(buf.Bytes()))

		Convey("Then the header ends with the resolution columns", func() {
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(snapshot.Columns[len(snapshot.Columns)-1], ShouldEqual, snapshot.ColInvolvedLeague)
		})
	})

	Convey("Given a compressed source file without resolution columns", t, func() {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte("club_name,player_name,transfer_movement,league_name,year,season\nAjax,X,in,Eredivisie,2020,2020/2021\n"))
		So(zw.Close(), ShouldBeNil)
		_, err := snapshot.Decode(context.Background(), &buf)

		Convey("Then it is rejected as a snapshot", func() {
			So(errors.Is(err, snapshot.ErrSnapshot), ShouldBeTrue)
		})
	})
}
