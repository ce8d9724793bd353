package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/they4kman/termsweep/director/constraint"
	"github.com/they4kman/termsweep/director/random"
	"github.com/they4kman/termsweep/game"
)

var gameConfig = game.NewGameConfig()
var configFile string

// settings layers the command-line flags over TERMSWEEP_* env vars and the
// optional config file
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "termsweep",
	Short: "Play Minesweeper in the terminal",
	Long: `termsweep is a text Minesweeper game, played by typing moves
or watched while the computer plays.

Run with no arguments to play on a 9x9 field
	termsweep

Moves are "x y free" to claim a cell as free, "x y mine" to mark or
unmark a mine, "x y chord" to clear around a satisfied number, and
"quit" to give up. Coordinates start at 1.

Use the director flag to make the computer play for you
	termsweep --mines 10 --director constraint
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadSettings(); err != nil {
			return err
		}

		logger, err := newLogger(settings.GetString("log-level"))
		if err != nil {
			return err
		}

		config, err := buildGameConfig(logger)
		if err != nil {
			return err
		}

		outcome, err := game.Run(config, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}

		logger.WithField("outcome", outcome).Info("game over")
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadSettings() error {
	settings.SetEnvPrefix("termsweep")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	if configFile != "" {
		settings.SetConfigFile(configFile)
		if err := settings.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", configFile)
		}
	}
	return nil
}

func newLogger(level string) (*logrus.Logger, error) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}

	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	logger.SetLevel(logLevel)
	return logger, nil
}

func buildGameConfig(logger *logrus.Logger) (game.GameConfig, error) {
	config := gameConfig
	config.Width = settings.GetInt("width")
	config.Height = settings.GetInt("height")
	config.NumMines = settings.GetInt("mines")
	config.Seed = settings.GetInt64("seed")
	config.LoadSnapshotFresh = settings.GetBool("fresh")
	config.Log = logger

	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	logger.WithField("seed", config.Seed).Debug("seeding random source")

	if layoutPath := settings.GetString("layout"); layoutPath != "" {
		contents, err := ioutil.ReadFile(layoutPath)
		if err != nil {
			return config, errors.Wrap(err, "reading layout")
		}
		snapshot, err := game.LoadSnapshot(string(contents))
		if err != nil {
			return config, err
		}
		config.Snapshot = snapshot
	}

	director, err := newDirector(settings.GetString("director"))
	if err != nil {
		return config, err
	}
	config.Director = director

	return config, nil
}

var directors = map[string]func() game.Director{
	"none":       func() game.Director { return nil },
	"random":     func() game.Director { return &random.Director{} },
	"constraint": func() game.Director { return &constraint.Director{} },
}

func directorNames() string {
	names := make([]string, 0, len(directors))
	for name := range directors {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func newDirector(name string) (game.Director, error) {
	newFn, isValid := directors[name]
	if !isValid {
		return nil, errors.Errorf("invalid director %q (expected one of %s)", name, directorNames())
	}
	return newFn(), nil
}

type directorValue string

func newDirectorValue(val string, p *string) *directorValue {
	*p = val
	return (*directorValue)(p)
}

func (value *directorValue) String() string {
	return string(*value)
}

func (value *directorValue) Set(name string) error {
	if _, isValid := directors[name]; !isValid {
		return fmt.Errorf("invalid director")
	}
	*value = directorValue(name)
	return nil
}

func (value *directorValue) Type() string {
	return "director"
}

var directorName string

func init() {
	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	rootCmd.Flags().Bool("help", false, "Help for this command")

	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file providing defaults for any flag")
	rootCmd.Flags().IntP("width", "w", gameConfig.Width, "Width of game board, in cells")
	rootCmd.Flags().IntP("height", "h", gameConfig.Height, "Height of game board, in cells")
	rootCmd.Flags().IntP("mines", "m", gameConfig.NumMines, "Number of mines to place in the game board (negative: ask)")
	rootCmd.Flags().Int64P("seed", "s", 0, "Seed for mine placement (0: random)")
	rootCmd.Flags().StringP("layout", "l", "", "YAML board snapshot to play instead of a random field")
	rootCmd.Flags().Bool("fresh", gameConfig.LoadSnapshotFresh, "Start a loaded layout with every cell hidden")
	rootCmd.Flags().String("log-level", "warning", "Log level (debug, info, warning, error)")
	rootCmd.Flags().VarP(newDirectorValue("none", &directorName), "director", "d", `Computer player:
none: play by typing moves
random: reveal random cells
constraint: play moves proven by single numbers, guess otherwise`)

	if err := settings.BindPFlags(rootCmd.Flags()); err != nil {
		panic(err)
	}
}
