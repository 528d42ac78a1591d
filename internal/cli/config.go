package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Gestiona la configuración de tramita",
	Long: `Gestiona los ficheros y valores de configuración.

Jerarquía de configuración (de mayor a menor prioridad):
1. Flags de la línea de comandos
2. Variables de entorno (TRAMITA_*)
3. Fichero de configuración (~/.tramita/config.yaml)
4. Valores por defecto`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Muestra la configuración efectiva",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Fichero de configuración: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "Sin fichero de configuración (valores por defecto)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(yamlData))

		fmt.Println("Jerarquía de configuración (de mayor a menor prioridad):")
		fmt.Println("  1. Flags de la línea de comandos")
		fmt.Println("  2. Variables de entorno (TRAMITA_*, OPENAI_API_KEY)")
		fmt.Println("  3. Fichero de configuración (~/.tramita/config.yaml)")
		fmt.Println("  4. Valores por defecto")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Crea el fichero de configuración por defecto",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".tramita")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("el fichero de configuración ya existe: %s\nUsa 'tramita config show' para verlo, o bórralo para recrearlo", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		cfg := loadConfig()

		header := `# Configuración de tramita
# Ver https://github.com/jcarril/tramita para la documentación completa.
#
# Jerarquía (de mayor a menor prioridad):
#   1. Flags de la línea de comandos
#   2. Variables de entorno (TRAMITA_*)
#   3. Este fichero
#   4. Valores por defecto

`
		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		if _, err := f.Write(yamlData); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		footer := `
# Claves de API (mejor como variables de entorno que en este fichero):
#   export OPENAI_API_KEY=sk-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`
		if _, err := f.WriteString(footer); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Configuración creada: %s\n", configPath)
		fmt.Printf("\nPara verla:\n")
		fmt.Printf("  tramita config show\n")
		fmt.Printf("\nPara personalizarla:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
