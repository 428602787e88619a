package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"soulengine/internal/config"
	"soulengine/internal/db"
	"soulengine/internal/domain"
	"soulengine/internal/engine"
	"soulengine/internal/repository"
	"soulengine/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	characterRepo := repository.NewPgCharacterRepository(pool)
	beliefRepo := repository.NewPgBeliefRepository(pool)

	registry := engine.NewRegistry()
	tick := 0.0
	eng := engine.NewEngine(registry, func() float64 { tick++; return tick })

	charSvc := service.NewCharacterService(eng, characterRepo, beliefRepo, nil, logger)

	fmt.Println("Soul Engine console. Type 'help' for commands, 'quit' to exit.")

	charID := promptCharacter(ctx, reader, charSvc)
	printView(ctx, charSvc, charID)

	for {
		fmt.Print("\nsoul> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("read error:", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])
		args := fields[1:]

		switch cmd {
		case "quit", "exit":
			fmt.Println("bye")
			return
		case "help":
			printHelp()
		case "state":
			printView(ctx, charSvc, charID)
		case "interact":
			runInteract(ctx, charSvc, charID, args)
		case "text":
			runText(ctx, charSvc, charID, strings.TrimPrefix(line, fields[0]+" "))
		case "situation":
			runSituation(ctx, charSvc, charID, args)
		case "leave":
			if err := charSvc.LeaveSituation(ctx, charID); err != nil {
				fmt.Println("error:", err)
			}
		case "beliefs":
			runBeliefs(ctx, reader, charSvc, charID)
		case "shock":
			runShock(ctx, charSvc, charID, args)
		default:
			fmt.Printf("unknown command %q, type 'help' for a list\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  state                          show current core/perceived/masking state
  interact <name> [intensity]    apply a registered interaction (e.g. interact conflict 1.0)
  text <free text...>            scan text for keyword triggers
  situation <name> [people,csv]  enter a situation with optional present people
  leave                          leave the active situation
  beliefs                        evaluate beliefs against a scene/conversation (interactive prompt)
  shock <idx> <dir> <magnitude>  apply a scripted belief shock
  quit                           exit`)
}

func promptCharacter(ctx context.Context, reader *bufio.Reader, charSvc *service.CharacterService) string {
	fmt.Print("character id: ")
	id, _ := reader.ReadString('\n')
	id = strings.TrimSpace(id)
	if id == "" {
		id = "demo"
	}

	view, err := charSvc.View(ctx, id)
	if err == nil {
		fmt.Printf("loaded existing character %q (personality=%s)\n", id, view.Personality)
		return id
	}
	if !errors.Is(err, repository.ErrCharacterNotFound) {
		log.Fatalf("load character: %v", err)
	}

	fmt.Print("personality (default/worrier/hothead/stoic/social): ")
	p, _ := reader.ReadString('\n')
	personality := domain.Personality(strings.TrimSpace(p))
	if !personality.IsValid() {
		personality = domain.PersonalityDefault
	}

	_, err = charSvc.CreateCharacter(ctx, id, personality, engine.CharacterOptions{
		InitHistory:      true,
		InitPresentation: true,
		InitBeliefs:      true,
		InitTriggers:     true,
	})
	if err != nil {
		log.Fatalf("create character: %v", err)
	}
	fmt.Printf("created new character %q (personality=%s)\n", id, personality)
	return id
}

func printView(ctx context.Context, charSvc *service.CharacterService, id string) {
	view, err := charSvc.View(ctx, id)
	if err != nil {
		fmt.Println("error loading state:", err)
		return
	}
	fmt.Printf("core:      %s\n", formatVector(view.Core))
	fmt.Printf("perceived: %s\n", formatVector(view.Perceived))
	fmt.Printf("masking strain: %.3f (%s)\n", view.MaskingStrain, view.StrainLabel)
}

func formatVector(v domain.Vector) string {
	var parts []string
	for _, e := range domain.Emotions {
		parts = append(parts, fmt.Sprintf("%s=%.2f", e, v[e]))
	}
	return strings.Join(parts, " ")
}

func runInteract(ctx context.Context, charSvc *service.CharacterService, id string, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: interact <name> [intensity]")
		return
	}
	intensity := 1.0
	if len(args) >= 2 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Println("invalid intensity:", err)
			return
		}
		intensity = v
	}
	applied, err := charSvc.ApplyInteraction(ctx, id, args[0], intensity)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("applied: %v\n", applied)
	printView(ctx, charSvc, id)
}

func runText(ctx context.Context, charSvc *service.CharacterService, id string, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Println("usage: text <free text...>")
		return
	}
	fired, err := charSvc.ProcessText(ctx, id, text)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(fired) == 0 {
		fmt.Println("no topics fired")
	}
	for _, ft := range fired {
		fmt.Printf("fired topic %q (intensity=%.2f, times=%d) deltas=%v\n", ft.Topic, ft.Intensity, ft.TimesTriggered, ft.AppliedDeltas)
	}
	printView(ctx, charSvc, id)
}

func runSituation(ctx context.Context, charSvc *service.CharacterService, id string, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: situation <name> [person1,person2,...]")
		return
	}
	var people []string
	if len(args) >= 2 {
		people = strings.Split(args[1], ",")
	}
	if err := charSvc.EnterSituation(ctx, id, args[0], people); err != nil {
		fmt.Println("error:", err)
		return
	}
	printView(ctx, charSvc, id)
}

func runBeliefs(ctx context.Context, reader *bufio.Reader, charSvc *service.CharacterService, id string) {
	fmt.Print("scene: ")
	scene, _ := reader.ReadString('\n')
	fmt.Print("conversation: ")
	conversation, _ := reader.ReadString('\n')

	events, err := charSvc.EvaluateBeliefs(ctx, id, strings.TrimSpace(scene), strings.TrimSpace(conversation))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(events) == 0 {
		fmt.Println("no tipping points fired")
	}
	for _, ev := range events {
		fmt.Printf("belief %d tipped: %.3f -> %.3f (direction=%d)\n", ev.BeliefIndex, ev.OldStrength, ev.NewStrength, ev.Direction)
	}
	printView(ctx, charSvc, id)
}

func runShock(ctx context.Context, charSvc *service.CharacterService, id string, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: shock <belief_index> <direction: 1|-1> <magnitude>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("invalid index:", err)
		return
	}
	direction, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Println("invalid direction:", err)
		return
	}
	magnitude, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fmt.Println("invalid magnitude:", err)
		return
	}
	applied, err := charSvc.ApplyShock(ctx, id, idx, direction, magnitude)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("shock applied: %t\n", applied)
	printView(ctx, charSvc, id)
}
