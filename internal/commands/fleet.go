package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/fleet"
	"github.com/faktury-dev/faktury/internal/format"
)

func newDriverCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "driver",
		Aliases: []string{"kierowca"},
		Short:   "Manage drivers",
	}
	cmd.AddCommand(newDriverAddCommand(opts), newDriverListCommand(opts), newDriverDeleteCommand(opts))
	return cmd
}

func newDriverAddCommand(opts *rootOptions) *cobra.Command {
	var p fleet.DriverParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				d, err := ws.fleet.AddDriver(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dodano kierowcę %s: %s\n", d.ID, d.Name)
				return ws.record(ctx, "driver", "add", "Add driver "+d.Name, d.ID)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "full name (required)")
	f.StringVar(&p.Phone, "phone", "", "phone number (required)")
	f.StringVar(&p.Email, "email", "", "email address")
	f.StringVar(&p.RegistrationNumber, "registration", "", "vehicle registration number")
	f.StringVar(&p.CarBrand, "car-brand", "", "vehicle brand")
	f.StringVar(&p.CarColor, "car-color", "", "vehicle color")
	f.StringVar(&p.DailyCost, "daily-cost", "", "daily cost in PLN")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newDriverListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				drivers, err := ws.fleet.Drivers(ctx)
				if err != nil {
					return err
				}
				if len(drivers) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak kierowców")
					return nil
				}
				t := newTable(cmd.OutOrStdout(), "ID", "IMIĘ I NAZWISKO", "TELEFON", "EMAIL", "REJESTRACJA", "KOSZT DZIENNY")
				for _, d := range drivers {
					t.row(d.ID, d.Name, format.Phone(d.Phone), orDash(d.Email), orDash(d.RegistrationNumber), format.Currency(d.DailyCost))
				}
				return t.flush()
			})
		},
	}
}

func newDriverDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a driver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				if err := ws.fleet.DeleteDriver(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Usunięto kierowcę %s\n", args[0])
				return ws.record(ctx, "driver", "delete", "Delete driver "+args[0], args[0])
			})
		},
	}
}

func newVehicleCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicle",
		Aliases: []string{"pojazd"},
		Short:   "Manage vehicles",
	}
	cmd.AddCommand(
		newVehicleAddCommand(opts),
		newVehicleListCommand(opts),
		newVehicleDeleteCommand(opts),
		newVehicleStatsCommand(opts),
	)
	return cmd
}

func newVehicleAddCommand(opts *rootOptions) *cobra.Command {
	var p fleet.VehicleParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				v, err := ws.fleet.AddVehicle(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dodano pojazd %s: %s\n", v.ID, v.Label())
				return ws.record(ctx, "vehicle", "add", "Add vehicle "+v.Label(), v.ID)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Brand, "brand", "", "brand (required)")
	f.StringVar(&p.Model, "model", "", "model (required)")
	f.StringVar(&p.Year, "year", "", "production year (required)")
	f.StringVar(&p.Color, "color", "", "color")
	f.StringVar(&p.EngineType, "engine", "", "engine type")
	f.StringVar(&p.ExpectedConsumption, "consumption", "", "expected fuel consumption in L/100km (required)")
	f.StringVar(&p.InitialOdometer, "odometer", "", "initial odometer reading in km")
	f.StringVar(&p.DriverName, "driver-name", "", "assigned driver name")
	f.StringVar(&p.DriverPhone, "driver-phone", "", "assigned driver phone")
	for _, name := range []string{"brand", "model", "year", "consumption"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newVehicleListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				vehicles, err := ws.fleet.Vehicles(ctx)
				if err != nil {
					return err
				}
				if len(vehicles) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak pojazdów")
					return nil
				}
				t := newTable(cmd.OutOrStdout(), "ID", "POJAZD", "SILNIK", "SPALANIE", "PRZEBIEG", "KIEROWCA")
				for _, v := range vehicles {
					t.row(v.ID, v.Label(), orDash(v.EngineType),
						strconv.FormatFloat(v.ExpectedFuelConsumption, 'f', 1, 64)+" L/100km",
						format.Distance(float64(v.InitialOdometer)), orDash(v.DriverName))
				}
				return t.flush()
			})
		},
	}
}

func newVehicleDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				if err := ws.fleet.DeleteVehicle(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Usunięto pojazd %s\n", args[0])
				return ws.record(ctx, "vehicle", "delete", "Delete vehicle "+args[0], args[0])
			})
		},
	}
}

func newVehicleStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show fuel totals per vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				stats, err := ws.fleet.Stats(ctx)
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak danych")
					return nil
				}
				t := newTable(cmd.OutOrStdout(), "POJAZD", "TANKOWANIA", "LITRY", "KOSZT", "ŚR. CENA/L")
				for _, s := range stats {
					t.row(s.Label(), strconv.Itoa(s.Entries), format.Liters(s.Liters),
						format.Currency(s.Cost), format.Currency(s.CostPerLiter()))
				}
				return t.flush()
			})
		},
	}
}

func newFuelCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fuel",
		Aliases: []string{"paliwo"},
		Short:   "Manage fuel entries",
	}
	cmd.AddCommand(newFuelAddCommand(opts), newFuelListCommand(opts), newFuelDeleteCommand(opts))
	return cmd
}

func newFuelAddCommand(opts *rootOptions) *cobra.Command {
	var p fleet.FuelParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a fuel purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				f, err := ws.fleet.AddFuel(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dodano tankowanie %s: %s, %s\n",
					f.ID, format.Liters(f.Liters), format.Currency(f.Amount))
				return ws.record(ctx, "fuel", "add",
					fmt.Sprintf("Add fuel %s (%s)", f.Date, f.Amount.StringFixed(2)), f.ID)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Date, "date", "", "purchase date YYYY-MM-DD (default today)")
	f.StringVar(&p.Amount, "amount", "", "amount paid in PLN (required)")
	f.StringVar(&p.Liters, "liters", "", "volume in liters (required)")
	f.StringVar(&p.Station, "station", "", "station")
	f.StringVar(&p.DriverID, "driver", "", "driver ID")
	f.StringVar(&p.VehicleID, "vehicle", "", "vehicle ID")
	f.StringVar(&p.Notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("liters")
	return cmd
}

func newFuelListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fuel purchases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				fuel, err := ws.fleet.Fuel(ctx)
				if err != nil {
					return err
				}
				if len(fuel) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Brak tankowań")
					return nil
				}
				t := newTable(cmd.OutOrStdout(), "ID", "DATA", "KWOTA", "LITRY", "STACJA", "POJAZD")
				for _, f := range fuel {
					t.row(f.ID, format.Date(f.Date), format.Currency(f.Amount), format.Liters(f.Liters),
						orDash(f.Station), orDash(f.VehicleID))
				}
				return t.flush()
			})
		},
	}
}

func newFuelDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a fuel purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withWorkspace(ctx, opts, func(ws *workspace) error {
				if err := ws.fleet.DeleteFuel(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Usunięto tankowanie %s\n", args[0])
				return ws.record(ctx, "fuel", "delete", "Delete fuel entry "+args[0], args[0])
			})
		},
	}
}
