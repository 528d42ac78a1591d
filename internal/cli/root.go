package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jcarril/tramita/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tramita",
	Short: "Tramita - análisis heurístico de documentos administrativos",
	Long: `Tramita analiza documentos de expedientes administrativos españoles
(licencias de apertura, actividad y obra) y produce dos informes:

- Metadatos de la licencia: expediente, autoridad, titular, fechas y
  NIF/CIF, con una puntuación de confianza y avisos de revisión.
- Evaluación de datos personales: categorías RGPD detectadas en el
  texto, con indicadores y puntuación de riesgo.

Ambos motores son deterministas: el mismo documento produce siempre el
mismo informe. Las puntuaciones son heurísticas y no sustituyen la
revisión humana.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tramita v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "fichero de configuración (por defecto: $HOME/.tramita/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "salida detallada")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error localizando el directorio home: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".tramita"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match TRAMITA_*
	viper.SetEnvPrefix("TRAMITA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Usando configuración: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, overlaid
// with whatever the config file and TRAMITA_* env vars provide.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Aviso: configuración no válida, usando valores por defecto: %v\n", err)
		cfg = model.DefaultConfig()
	}

	if cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".tramita", "cache")
		}
	}

	return cfg
}
