package workshop

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

type craftRequest struct {
	inputs      []crafting.InstanceID
	slots       []crafting.SlotInput
	tool        *crafting.InstanceID
	worldObject *crafting.WorldObjectID
}

// parseCraftArgs reads the arguments after the recipe id: bare ids,
// slot=id pairs, "at <station>" and "with <tool>".
func parseCraftArgs(args []string) (craftRequest, error) {
	var req craftRequest
	for i := 0; i < len(args); i++ {
		token := args[i]
		switch strings.ToLower(token) {
		case "at", "with":
			if i+1 >= len(args) {
				return craftRequest{}, fmt.Errorf("%s needs an id", strings.ToLower(token))
			}
			i++
			n, err := parseRef(args[i])
			if err != nil {
				return craftRequest{}, err
			}
			if strings.EqualFold(token, "at") {
				if req.worldObject != nil {
					return craftRequest{}, fmt.Errorf("only one station can be used")
				}
				id := crafting.WorldObjectID(n)
				req.worldObject = &id
			} else {
				if req.tool != nil {
					return craftRequest{}, fmt.Errorf("only one tool can be used")
				}
				id := crafting.InstanceID(n)
				req.tool = &id
			}
			continue
		}
		if slot, ref, ok := strings.Cut(token, "="); ok {
			if slot == "" {
				return craftRequest{}, fmt.Errorf("%q has no slot name", token)
			}
			n, err := parseRef(ref)
			if err != nil {
				return craftRequest{}, err
			}
			req.slots = append(req.slots, crafting.SlotInput{Slot: strings.ToLower(slot), Instance: crafting.InstanceID(n)})
			continue
		}
		id, err := parseInstanceRef(token)
		if err != nil {
			return craftRequest{}, err
		}
		req.inputs = append(req.inputs, id)
	}
	return req, nil
}

func parseInstanceRef(raw string) (crafting.InstanceID, error) {
	n, err := parseRef(raw)
	if err != nil {
		return 0, err
	}
	return crafting.InstanceID(n), nil
}

func parseRef(raw string) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	n, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an id", raw)
	}
	return n, nil
}
